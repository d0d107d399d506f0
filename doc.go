// Package sceneview renders an interactive view of a vector scene while the
// CPU-bound scene build runs on a background worker.
//
// # Overview
//
// A frame goes through four stages:
//
//	frame.Loop  -> build.Options -> pipeline.Proxy -> pipeline.Worker
//	pipeline.Worker -> build.Artifact -> pipeline.Proxy -> frame.Presenter
//
// The worker owns the [document.Scene] exclusively. The control loop only
// ever sees immutable [build.Options] going out and fully owned
// [build.Artifact] values coming back, so no state is shared between the
// two goroutines.
//
// # Packages
//
//   - camera: free-look camera and perspective projection
//   - build: build options, the request assembler and the gg tile builder
//   - pipeline: the scene worker, its mailboxes and the control-side proxy
//   - frame: the per-frame control loop and its input/UI/presentation ports
//   - document: the scene data, SVG loading and diagnostic dumps
//   - ui: the demo widgets (effects panel, 2D/3D switch)
//   - present: PNG frame output
//   - input: event queue, replay scripts and scene file watching
//
// # Frame pacing
//
// The first frame submits two builds and every later frame exactly one, so
// at most two builds are ever in flight and the presenter always draws the
// result of the build submitted one frame earlier.
//
// # Logging
//
// sceneview is silent by default. Call [SetLogger] to enable output.
package sceneview

// Version is the current version of sceneview.
const Version = "0.1.0"
