// Package syntax is the C# front-end: it parses a source file with
// tree-sitter and keeps only what the field rules and fixes need.
//
// A Tree lists the using directives and the class/struct/record
// declarations of one file. Each TypeDecl carries its field declarations.
// FieldDecl keeps attribute lists, modifiers, the type text and the
// declarators, all with byte spans into the original source.
//
// Trees are immutable. Rewrites build a modified FieldDecl (WithAttribute,
// WithAccess) and graft it with Tree.ReplaceField, which copies only the path
// to the replaced field. A rewritten field remembers how it differs from the
// parsed one; Tree.Render turns those differences into text edits over the
// original bytes, so everything outside the rewritten spans is reproduced
// exactly.
package syntax
