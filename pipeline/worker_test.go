package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gg/scene"
	"github.com/gogpu/sceneview/build"
	"github.com/gogpu/sceneview/document"
	"github.com/google/go-cmp/cmp"
)

// call is what the recording builder saw for one build.
type call struct {
	Options  build.Options
	Viewport image.Point
	Objects  int
}

type recordingBuilder struct {
	mu    sync.Mutex
	calls []call
}

func (b *recordingBuilder) Build(_ context.Context, doc *document.Scene, opts build.Options) (*build.Artifact, error) {
	w, h := doc.ViewportSize()
	b.mu.Lock()
	b.calls = append(b.calls, call{Options: opts, Viewport: image.Pt(w, h), Objects: len(doc.Objects)})
	b.mu.Unlock()
	return &build.Artifact{Options: opts, Objects: len(doc.Objects)}, nil
}

func (b *recordingBuilder) recorded() []call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]call(nil), b.calls...)
}

func testScene(objects int) *document.Scene {
	doc := document.New(scene.Rect{MaxX: 10, MaxY: 10})
	paint := doc.AddPaint(document.Paint{})
	for range objects {
		p := scene.NewPath()
		p.MoveTo(0, 0)
		p.LineTo(10, 0)
		p.LineTo(10, 10)
		p.Close()
		doc.AddObject(document.Object{Path: p, Fill: paint, Stroke: document.NoPaint})
	}
	return doc
}

func noExit(t *testing.T) Option {
	return WithExit(func(code int) {
		t.Errorf("unexpected exit(%d)", code)
	})
}

func recv(t *testing.T, p *Proxy) *build.Artifact {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	art, err := p.RecvArtifact(ctx)
	if err != nil {
		t.Fatalf("RecvArtifact() error = %v", err)
	}
	return art
}

func TestWorker_RepliesInOrder(t *testing.T) {
	b := &recordingBuilder{}
	p := Spawn(testScene(1), b, image.Pt(100, 100), noExit(t))
	defer p.Wait()
	defer p.Close()

	const n = 10
	for i := range n {
		opts := build.Options{Dilation: mgl32.Vec2{float32(i), 0}}
		if err := p.SendBuild(opts); err != nil {
			t.Fatalf("SendBuild(%d) error = %v", i, err)
		}
	}
	for i := range n {
		art := recv(t, p)
		if got := art.Options.Dilation[0]; got != float32(i) {
			t.Errorf("reply %d carries build %v", i, got)
		}
	}
}

func TestWorker_ViewportBeforeBuild(t *testing.T) {
	b := &recordingBuilder{}
	p := Spawn(testScene(1), b, image.Pt(100, 100), noExit(t))

	_ = p.SendBuild(build.Options{})
	_ = p.SendViewport(image.Pt(300, 200))
	_ = p.SendBuild(build.Options{})
	recv(t, p)
	recv(t, p)
	p.Close()
	p.Wait()

	want := []call{
		{Viewport: image.Pt(100, 100), Objects: 1},
		{Viewport: image.Pt(300, 200), Objects: 1},
	}
	if diff := cmp.Diff(want, b.recorded()); diff != "" {
		t.Errorf("builds mismatch (-want +got):\n%s", diff)
	}
}

func TestWorker_SetSceneKeepsViewport(t *testing.T) {
	b := &recordingBuilder{}
	p := Spawn(testScene(1), b, image.Pt(64, 48), noExit(t))

	_ = p.SendScene(testScene(3))
	_ = p.SendBuild(build.Options{})
	if art := recv(t, p); art.Objects != 3 {
		t.Errorf("Objects = %d, want 3 after SetScene", art.Objects)
	}
	p.Close()
	p.Wait()

	if got := b.recorded()[0].Viewport; got != image.Pt(64, 48) {
		t.Errorf("viewport after SetScene = %v, want (64,48)", got)
	}
}

func TestWorker_BuildTime(t *testing.T) {
	mock := clock.NewMock()
	b := build.BuilderFunc(func(_ context.Context, _ *document.Scene, opts build.Options) (*build.Artifact, error) {
		mock.Add(25 * time.Millisecond)
		return &build.Artifact{Options: opts}, nil
	})
	p := Spawn(testScene(1), b, image.Pt(10, 10), WithClock(mock), noExit(t))
	defer p.Wait()
	defer p.Close()

	_ = p.SendBuild(build.Options{})
	if got := recv(t, p).BuildTime; got != 25*time.Millisecond {
		t.Errorf("BuildTime = %v, want 25ms", got)
	}
}

func TestWorker_ClosedFailsDeterministically(t *testing.T) {
	p := Spawn(testScene(1), &recordingBuilder{}, image.Pt(10, 10), noExit(t))
	p.Close()
	p.Wait()

	for range 3 {
		if _, err := p.RecvArtifact(context.Background()); !errors.Is(err, ErrWorkerStopped) {
			t.Errorf("RecvArtifact() error = %v, want ErrWorkerStopped", err)
		}
	}
	if err := p.SendBuild(build.Options{}); !errors.Is(err, ErrWorkerStopped) {
		t.Errorf("SendBuild() error = %v, want ErrWorkerStopped", err)
	}
	if err := p.SendViewport(image.Pt(1, 1)); !errors.Is(err, ErrWorkerStopped) {
		t.Errorf("SendViewport() error = %v, want ErrWorkerStopped", err)
	}
}

func TestWorker_CloseDrainsQueuedBuilds(t *testing.T) {
	b := &recordingBuilder{}
	p := Spawn(testScene(1), b, image.Pt(10, 10), noExit(t))
	_ = p.SendBuild(build.Options{})
	_ = p.SendBuild(build.Options{})
	p.Close()

	recv(t, p)
	recv(t, p)
	if _, err := p.RecvArtifact(context.Background()); !errors.Is(err, ErrWorkerStopped) {
		t.Errorf("RecvArtifact() after drain error = %v, want ErrWorkerStopped", err)
	}
	p.Wait()
}

func TestWorker_BuildFailureIsFatal(t *testing.T) {
	tests := []struct {
		name    string
		builder build.BuilderFunc
		wantMsg string
	}{
		{
			name: "panic",
			builder: func(context.Context, *document.Scene, build.Options) (*build.Artifact, error) {
				panic("tile overflow")
			},
			wantMsg: "tile overflow",
		},
		{
			name: "error",
			builder: func(context.Context, *document.Scene, build.Options) (*build.Artifact, error) {
				return nil, errors.New("out of memory")
			},
			wantMsg: "out of memory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var diag bytes.Buffer
			codes := make(chan int, 1)
			p := Spawn(testScene(2), tt.builder, image.Pt(10, 10),
				WithDiagnostics(&diag),
				WithExit(func(code int) { codes <- code }))

			_ = p.SendBuild(build.Options{})
			if _, err := p.RecvArtifact(context.Background()); !errors.Is(err, ErrWorkerStopped) {
				t.Errorf("RecvArtifact() error = %v, want ErrWorkerStopped", err)
			}
			p.Wait()

			select {
			case code := <-codes:
				if code != 1 {
					t.Errorf("exit code = %d, want 1", code)
				}
			default:
				t.Fatal("exit policy was not invoked")
			}
			out := diag.String()
			if !strings.Contains(out, tt.wantMsg) {
				t.Errorf("diagnostics missing %q:\n%s", tt.wantMsg, out)
			}
			if !strings.Contains(out, "2 objects") {
				t.Errorf("diagnostics missing scene dump:\n%s", out)
			}
		})
	}
}
