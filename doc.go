// Package surveydash harmonises the raw exports of a multi-country surveillance survey
// into one analysis-ready table.
//
// The survey runs in two parallel variants, one for civil-society organisations (CSO)
// and one for media professionals (Media), each in three country instances (United
// Kingdom, Germany, France). The questionnaire platform exports every instance as a
// semicolon-delimited CSV whose columns are opaque question codes and whose cells are
// opaque option codes. surveydash turns those six files into one table keyed by a
// stable variable schema, and persists it as snapshots for the presentation layer.
//
// # Pipeline
//
// The pipeline is a straight-line batch:
//
//	raw CSV ──Ingest──▶ variant table ──Normalise──▶ canonical table ──Decode──▶ labelled table
//	                                                                              │
//	            snapshots ◀──SnapshotStore── survey (CSO rows, then Media rows) ◀──Merge
//
// Every instrument detail (column renames, projections, option-code maps and their
// per-country overrides) lives in the registry package. The stages here only apply it.
//
// # Basic Usage
//
//	pipeline, err := surveydash.NewPipeline().
//	    AddPath("data/raw").
//	    WithOutputDir("data/snapshots").
//	    Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := pipeline.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Survey.Len())
//
// # Raw File Naming
//
// Raw files are recognised by name: <variant>_<country>.csv, optionally compressed.
//   - "cso_uk.csv" is the CSO export of the United Kingdom instance
//   - "media_de.csv.zst" is the zstd-compressed Media export of the German instance
//
// # Snapshots
//
// Each table is written as three artifacts with stable names: a Parquet file for fast
// typed reload, an Excel workbook for inspection, and a comma-separated file for
// portability. Writing the same table twice produces the same Parquet and CSV bytes.
//
// # Error Handling
//
// Stage failures wrap the package's sentinel errors and can be checked with errors.Is.
// A raw column that the registry projects but the export lacks is reported as a
// *SchemaMissError listing every missing column.
package surveydash
