// Package layout renders events into text.
//
// The central type is PatternLayout, which compiles a conversion pattern
// such as "%d [%p] %c - %m%n" into a chain of converter nodes, one per
// literal run or conversion specifier. Formatting an event walks the
// chain once, writing each fragment into a pooled buffer and flushing it
// to the destination writer in a single Write call.
//
// A conversion specifier has the form
//
//	%[-]minwidth[.maxwidth]keyword[{option}]
//
// The dash left-aligns (pads on the right). When the rendered fragment
// exceeds maxwidth it is truncated: a right-aligned field keeps the last
// maxwidth characters, a left-aligned field keeps the first. The option
// string is passed verbatim to the converter; each converter defines its
// own option syntax (a date format, a property key, a precision count).
//
// Converters are looked up in a registry keyed by keyword. The package
// registers the built-in set at init; a parser instance can shadow
// global entries with its own registrations. An unknown keyword is
// reported to the internal diagnostic log and becomes a node that emits
// nothing, so one bad specifier never disables the rest of the pattern.
package layout
