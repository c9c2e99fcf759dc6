// Interaction state shared between the input phase and the render tick
package interaction

import "fmt"

// Viewport is the window size in device pixels used for gesture conversion
type Viewport struct {
	Width  int
	Height int
}

// Valid reports whether both dimensions are positive
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0
}

// InputState records pointer and modifier conditions between events
type InputState struct {
	Dragging  bool
	LastX     float64
	LastY     float64
	ShiftHeld bool
}

// TransformState holds the UV-space transform driven by gestures.
// Scale is always positive.
type TransformState struct {
	TranslateU      float32
	TranslateV      float32
	Scale           float32
	RotationDegrees float32
}

// Identity returns the identity transform
func Identity() TransformState {
	return TransformState{Scale: 1}
}

// Reset sets the transform back to identity
func (t *TransformState) Reset() {
	*t = Identity()
}

// IsIdentity reports whether the transform is exactly identity
func (t TransformState) IsIdentity() bool {
	return t == Identity()
}

func (t TransformState) String() string {
	return fmt.Sprintf("translate=(%.4f, %.4f) scale=%.4f rotation=%.2f",
		t.TranslateU, t.TranslateV, t.Scale, t.RotationDegrees)
}

// InteractionState aggregates everything the gesture handlers mutate.
// It is owned by the frame loop and passed by reference to handlers.
type InteractionState struct {
	Input     InputState
	Transform TransformState
}

// NewInteractionState creates a state with an identity transform
func NewInteractionState() *InteractionState {
	return &InteractionState{
		Transform: Identity(),
	}
}
