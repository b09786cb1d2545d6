// Package engine applies edits to a scene and cascades their effects through
// the relations that depend on the edited node.
//
// # Cascade
//
// [Relayout] walks the node list forward from a changed index and re-runs
// every relation it meets, reading children from the already-updated list so
// earlier steps are visible to later ones. The list order must be a valid
// dependency order (see [scene.Scene.ValidateOrder]); scenes that violate it
// are rejected with INVALID_ORDER.
//
// A relation that fails during the cascade keeps its stale geometry and is
// reported as a [Diagnostic]; the walk continues. This degraded mode only
// applies downstream of an edit.
//
// # Edits
//
// Direct edits ([Apply], [EditParams], [UpdateGeometry], [MoveGroup],
// [Detach], [Delete]) are atomic: when the edited relation cannot be
// satisfied the call returns an error and the input scene is the current
// state. On success each edit returns a new scene, the absolute-position
// writes for the shape store, and the cascade diagnostics.
//
// Scenes are immutable; every call returns a new [scene.Scene].
package engine
