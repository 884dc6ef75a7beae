// Package dataset provides the immutable tabular inputs of the diff engine.
//
// A Dataset is an ordered column schema plus rows of positional string
// values. Construction validates the shape (unique non-empty column names,
// exact row arity) so the engine never has to guess what an undeclared or
// missing column means. Lookups by column name use the comma-ok form; a
// column outside the schema is reported explicitly instead of defaulting to
// an empty value.
//
// CSV input is parsed with the standard library reader, headered or
// headless (Column1..ColumnN). Values are never trimmed or folded here:
// whitespace and case policy belong to the comparison options.
package dataset
