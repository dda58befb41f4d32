// Package cartoon turns a photograph into a flat-color rendering with black outlines.
//
// The pipeline is a fixed five-stage composition operating on one image per call:
//
//  1. Resize: bilinear resample to the working resolution (Config.TargetWidth x TargetHeight).
//  2. Downsample: up to Config.DownscaleSteps Gaussian-pyramid reductions.
//  3. Flatten: Config.SmoothingIterations bilateral passes, then Upsample back up.
//  4. ExtractEdges: grayscale, median filter and adaptive mean threshold on the
//     full-resolution working image, producing a 0/255 mask.
//  5. Composite: the mask is resampled to the color layer and ANDed into it.
//
// # Images
//
// Color images inside the pipeline are *image.NRGBA with the origin at (0,0) and every
// alpha value set to 255. Masks are *image.Gray holding only 0 or 255. Every stage
// returns a freshly allocated image; inputs are never modified.
//
// # Concurrency
//
// Rows within a single pass are processed in parallel. Passes and stages run strictly
// one after the other. A Pipeline holds only its validated Config and logger, so one
// value may serve concurrent Render calls.
//
// # Errors
//
// Failures are structural, never transient:
//   - ErrDecodeFailure: the source image is nil or empty
//   - ErrInvalidConfiguration: rejected by Config.Validate before any stage runs
//   - ErrDimensionMismatch: the compositor could not reconcile mask and color sizes
//
// Use errors.Is to test for them.
package cartoon
