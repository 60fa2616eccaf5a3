/*
Qualifier algebra: composable, serializable predicates for fetch
specifications, plus a parser for a SQL-WHERE-like textual mini-language, and
late binding of named variables. Oriented towards ORM-style data access
layers: a qualifier describes WHICH records match a fetch, without saying HOW
the fetch is executed. SQL generation, model metadata, and database adaptors
are separate concerns; they consume qualifier trees read-only.

Key Features

• Predicate AST with a small built-in set of variants: boolean constants,
key-value comparisons, key-to-key comparisons, negation, AND/OR compounds,
and raw SQL with bindable placeholders. The set is open: external code can
implement the `Qualifier` interface to add its own variants.

• Textual format: `Parse` converts strings such as

	lastname = 'Duck' AND firstname = $firstname

into qualifier trees, with `%`-style positional arguments and `$name`
bindings.

• Late binding: `$name` variables are resolved against an arbitrary bindings
object via key-value lookup, either strictly (missing binding = error) or
best-effort (missing binding = variable stays unresolved).

• In-memory evaluation: qualifiers can be evaluated directly against Go
values via key-value lookup, for array-backed data sources.

• Round-trippable rendering: a qualifier's canonical string form reparses
into an equal qualifier.

Qualifier trees are immutable values. Binding resolution produces new trees;
originals are never mutated. Trees are freely shareable between goroutines.
*/
package sqlq
