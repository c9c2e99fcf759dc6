package render

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"gocv.io/x/gocv"

	"webcam-transform/internal/core"
)

// Texture is the video texture; it implements the frame loop's texture sink.
// Frames must arrive flipped bottom-up.
type Texture struct {
	id   uint32
	info core.FrameInfo
}

func NewTexture() *Texture {
	t := &Texture{}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return t
}

// textureFormat maps a channel count to GL internal and pixel formats for 8-bit BGR(A) data
func textureFormat(channels int) (int32, uint32, error) {
	switch channels {
	case 1:
		return gl.R8, gl.RED, nil
	case 3:
		return gl.RGB8, gl.BGR, nil
	case 4:
		return gl.RGBA8, gl.BGRA, nil
	}
	return 0, 0, fmt.Errorf("unsupported number of channels: %d", channels)
}

// textureSwizzle spreads single-channel frames over RGB with opaque alpha;
// other layouts read straight through
func textureSwizzle(channels int) [4]int32 {
	if channels == 1 {
		return [4]int32{gl.RED, gl.RED, gl.RED, gl.ONE}
	}
	return [4]int32{gl.RED, gl.GREEN, gl.BLUE, gl.ALPHA}
}

// Upload copies the frame into the texture, reallocating storage when the
// geometry changes
func (t *Texture) Upload(frame gocv.Mat) error {
	if err := core.ValidateFrame(frame); err != nil {
		return err
	}

	if !frame.IsContinuous() {
		continuous := frame.Clone()
		defer continuous.Close()
		frame = continuous
	}

	info := core.FrameInfoOf(frame)
	internal, format, err := textureFormat(info.Channels)
	if err != nil {
		return err
	}

	data, err := frame.DataPtrUint8()
	if err != nil {
		return fmt.Errorf("frame data: %w", err)
	}

	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, int32(info.Alignment()))

	if info != t.info {
		gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(info.Width), int32(info.Height), 0,
			format, gl.UNSIGNED_BYTE, gl.Ptr(data))
		swizzle := textureSwizzle(info.Channels)
		gl.TexParameteriv(gl.TEXTURE_2D, gl.TEXTURE_SWIZZLE_RGBA, &swizzle[0])
		t.info = info
		return nil
	}

	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(info.Width), int32(info.Height),
		format, gl.UNSIGNED_BYTE, gl.Ptr(data))
	return nil
}

// Bind binds the texture to unit 0
func (t *Texture) Bind() {
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
}

// Info returns the geometry of the last upload
func (t *Texture) Info() core.FrameInfo {
	return t.info
}

func (t *Texture) Release() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}
