// Package drill implements the vocabulary drill core: the word store and
// active queue, deterministic voice/path resolution for pre-rendered
// pronunciation clips, a bounded-lookahead clip cache, and the playback
// controller that sequences repeats and auto-advance.
package drill
