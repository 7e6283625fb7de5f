// Package cleanup applies approved removal recommendations to the
// archive. An apply run takes a verified backup first, mutates each
// affected file in isolation, re-runs detection to verify the result,
// and triggers downstream regeneration. Safety caps bound how much a
// single run may touch.
package cleanup
