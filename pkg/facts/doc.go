// Package facts provides the fact bag abstraction and the filesystem fact
// extractor that feeds the assessment engine.
//
// A fact bag is an immutable mapping from fact key to an observed value
// (string, number, or boolean). It is built once per target before any
// scoring begins and is the sole input the engine sees; no rule ever reads
// the filesystem directly.
//
// # Basic Usage
//
//	extractor := facts.NewExtractor(logger)
//	bag, err := extractor.Extract(ctx, "/path/to/target")
//	if err != nil {
//	    // target missing or unreadable - assessment cannot proceed
//	}
//
//	version, ok := bag.String("manifest.version")
//	count, ok := bag.Number("docs.count")
//
// # Fact Keys
//
// The extractor emits hierarchical dotted keys:
//   - manifest.*  - fields parsed from version.json
//   - readme.*    - README.md presence, title, section count, full text
//   - changelog.* - CHANGELOG.md presence and latest released version
//   - license.*   - LICENSE presence and text
//   - files.*     - file counts and tree depth
//
// # Thread Safety
//
// Bags are immutable after construction and safe for concurrent reads.
// The extractor is stateless and safe for concurrent use across targets.
package facts
