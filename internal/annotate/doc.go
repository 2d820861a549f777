// Package annotate builds the overlays drawn on top of a displayed image for
// each recognized word.
//
// A Builder scales every detection element from image pixels into the view
// (see geometry.AspectFit) and produces an Annotation holding the scaled
// frame, a closed outline path tracing it, the recognized text, and in
// ModeLabeled a label centered in the frame. An empty detection produces an
// empty Set with empty text, or a single "?" indicator when requested.
//
// A Display owns the one live Set of the displayed image. Requests take a
// Ticket with Begin and hand their result to Attach; results of superseded
// requests are rejected with ErrStale instead of piling up.
package annotate
