// Package model defines the value types the FTS join/aggregation kernel
// operates on: the four id spaces, the Score accumulator, the
// Word-Entity-Postings bundle, and the auxiliary filter and output types.
package model

// ContextID identifies a text record (sentence, snippet, passage) in which
// words and entities co-occur. It is monotonic within a posting stream.
type ContextID uint64

// EntityID identifies a knowledge-graph entity mentioned in a context.
type EntityID uint64

// WordID identifies a word in the text vocabulary.
type WordID uint64

// ValueID is the generic column type of an output table row: a context,
// entity, word, or filter-carried id reinterpreted as an opaque value.
type ValueID uint64

// AsValue reinterprets a ContextID as an output-column ValueID.
func (c ContextID) AsValue() ValueID { return ValueID(c) }

// AsValue reinterprets an EntityID as an output-column ValueID.
func (e EntityID) AsValue() ValueID { return ValueID(e) }

// AsValue reinterprets a WordID as an output-column ValueID.
func (w WordID) AsValue() ValueID { return ValueID(w) }

// Score is a non-negative integer ranking weight. Addition of Scores never
// overflows within a single query; bounding the inputs is the caller's
// responsibility.
type Score int64

// AsValue reinterprets a Score as an output-column ValueID, used when an
// entity's aggregate count is written into a result row.
func (s Score) AsValue() ValueID { return ValueID(s) }
