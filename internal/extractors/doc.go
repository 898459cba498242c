// Package extractors provides implementations of the Extractor interface.
// Each extractor knows how to recover a Document's identifier, level and
// object names from one serialized member payload.
package extractors
