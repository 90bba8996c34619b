// Package humdrum parses spine-structured score text and analyzes it into a
// cross-linked document model.
//
// A Document owns every Line and Token in an arena; tokens refer to each other
// by TokenID rather than by pointer, so the split and merge diamonds of the
// spine graph never form owning cycles. Reading a document runs the analysis
// pipeline in order: spine structure, token links, strands with null
// resolution and layout parameters, then rhythm. Any pass may stop the
// pipeline with an *AnalysisError; the document is then invalid and reports the
// message once through IsValid.
//
// No graph walk recurses. Strand and rhythm walks keep explicit stacks, and
// the non-null and non-rhythmic passes sweep the lines in order, so files
// with tens of thousands of lines do not depend on goroutine stack growth.
package humdrum
