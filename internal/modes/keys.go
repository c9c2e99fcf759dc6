package modes

// Key is a watched keyboard key, independent of the windowing library
type Key int

const (
	KeyOne Key = iota
	KeyTwo
	KeyThree
	KeyFour
	KeyG
	KeyE
	KeyP
	KeyT
	KeyC
	KeyR
	KeyS
	KeyEscape
)

func (k Key) String() string {
	switch k {
	case KeyOne:
		return "1"
	case KeyTwo:
		return "2"
	case KeyThree:
		return "3"
	case KeyFour:
		return "4"
	case KeyG:
		return "G"
	case KeyE:
		return "E"
	case KeyP:
		return "P"
	case KeyT:
		return "T"
	case KeyC:
		return "C"
	case KeyR:
		return "R"
	case KeyS:
		return "S"
	case KeyEscape:
		return "Esc"
	}
	return "?"
}

// KeyPoller reports the current pressed state of a key
type KeyPoller interface {
	IsPressed(k Key) bool
}

// HelpText lists the key bindings shown at startup
const HelpText = "Filter keys: 1=None, 2=CPU Gray, 3=CPU Edge, 4=CPU Pixelate, " +
	"G=GPU Gray, E=GPU Edge, P=GPU Pixelate | T=toggle transforms, C=toggle CPU/GPU transforms, " +
	"R=reset transforms, S=snapshot, Esc=quit | drag=pan, shift+drag=rotate, scroll=zoom"
