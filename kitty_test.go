package contour

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"
)

func TestParseKittyGraphicsControl(t *testing.T) {
	cmd, err := ParseKittyGraphics([]byte("Ga=T,f=32,s=2,v=1,i=7;AAAA"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if cmd.Action != KittyActionTransmitDisplay {
		t.Errorf("unexpected action %c", cmd.Action)
	}
	if cmd.Format != KittyFormatRGBA || cmd.Width != 2 || cmd.Height != 1 || cmd.ImageID != 7 {
		t.Errorf("unexpected command %+v", cmd)
	}
	if len(cmd.Payload) != 3 {
		t.Errorf("expected decoded payload, got %d bytes", len(cmd.Payload))
	}
}

func TestKittyDecodeRGBA(t *testing.T) {
	cmd := &KittyCommand{
		Format:  KittyFormatRGBA,
		Width:   1,
		Height:  1,
		Payload: []byte{10, 20, 30, 255},
	}

	rgba, w, h, err := cmd.DecodeImageData()
	if err != nil || w != 1 || h != 1 {
		t.Fatalf("decode failed: %v (%dx%d)", err, w, h)
	}
	if !bytes.Equal(rgba, []byte{10, 20, 30, 255}) {
		t.Errorf("unexpected pixels %v", rgba)
	}
}

func TestKittyDecodePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, image.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	cmd := &KittyCommand{Format: KittyFormatPNG, Payload: buf.Bytes()}
	rgba, w, h, err := cmd.DecodeImageData()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if w != 2 || h != 2 || len(rgba) != 16 {
		t.Errorf("unexpected result %dx%d, %d bytes", w, h, len(rgba))
	}
}

func TestKittyTransmitAndDisplay(t *testing.T) {
	term := New(WithSize(10, 20))

	payload := base64.StdEncoding.EncodeToString([]byte{255, 0, 0, 255})
	term.WriteString("\x1b_Ga=T,f=32,s=1,v=1,i=3,q=2;" + payload + "\x1b\\")

	if term.ImageCount() != 1 {
		t.Fatalf("expected 1 image, got %d", term.ImageCount())
	}
	if term.ImagePlacementCount() != 1 {
		t.Fatalf("expected 1 placement, got %d", term.ImagePlacementCount())
	}
	img := term.Image(3)
	if img == nil || img.Width != 1 || img.Height != 1 {
		t.Fatal("expected stored image under id 3")
	}
}

func TestKittyQueryResponds(t *testing.T) {
	var response bytes.Buffer
	term := New(WithSize(5, 10), WithResponse(&response))

	term.WriteString("\x1b_Ga=q,i=9;\x1b\\")

	if got := response.String(); got != "\x1b_Gi=9;OK\x1b\\" {
		t.Errorf("unexpected query response %q", got)
	}
}

func TestKittyDelete(t *testing.T) {
	term := New(WithSize(10, 20))

	payload := base64.StdEncoding.EncodeToString([]byte{0, 255, 0, 255})
	term.WriteString("\x1b_Ga=T,f=32,s=1,v=1,i=4,q=2;" + payload + "\x1b\\")
	term.WriteString("\x1b_Ga=d,d=I,i=4,q=2;\x1b\\")

	if term.ImageCount() != 0 || term.ImagePlacementCount() != 0 {
		t.Errorf("expected image and placement deleted, got %d/%d",
			term.ImageCount(), term.ImagePlacementCount())
	}
}

func TestKittyDisabled(t *testing.T) {
	term := New(WithSize(10, 20), WithKitty(false))

	payload := base64.StdEncoding.EncodeToString([]byte{0, 0, 255, 255})
	term.WriteString("\x1b_Ga=T,f=32,s=1,v=1,q=2;" + payload + "\x1b\\")

	if term.ImageCount() != 0 {
		t.Errorf("expected no images with kitty disabled, got %d", term.ImageCount())
	}
}
