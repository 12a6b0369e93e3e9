// Package diag defines the diagnostic model shared by the rule engine, the fix
// engine and the renderers.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Code – the stable rule identifier ("HasToolTip", "UCPrivateField", ...).
//   - Severity – Info, Warning or Error; rules default to Warning.
//   - Category – Usage or Design, copied from the rule's Descriptor.
//   - Message – the descriptor's message format with Args substituted.
//   - Args – message arguments; Args[0] is always the declaration name.
//   - Primary – the span of the declaration's identifier.
//   - Properties – the fix-relevant state the rule attached. Each rule
//     documents its own property schema; fixes read nothing else.
//   - Fixes – titles of the fixes a host may offer, filled by the driver.
//
// Diagnostics are values. Helpers such as WithProperty return modified copies
// and never alias the receiver's maps or slices.
//
// # Emitting diagnostics
//
// Producers write into a Reporter. BagReporter collects into a Bag, which
// supports sorting, deduplication and filtering; DedupReporter and
// FilterReporter wrap another Reporter.
//
// # Scope
//
// Package diag does not format, perform IO or apply fixes. Rendering lives in
// internal/diagfmt, repair in internal/fix.
package diag
