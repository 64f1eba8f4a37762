package dispatch

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/luxbridge/milightd/internal/controller"
	"github.com/luxbridge/milightd/internal/protocol"
)

// recorder is a SendFunc capturing frames; guarded for cross-goroutine
// inspection since the queue worker sends from its own goroutine.
type recorder struct {
	mu     sync.Mutex
	frames []string
	hosts  []string
}

func (r *recorder) send(payload []byte, host string, port int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, fmt.Sprintf("%x", payload))
	r.hosts = append(r.hosts, host)
	return nil
}

func (r *recorder) joined() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.frames, " ")
}

func newTestPool(t *testing.T, send controller.SendFunc, hosts ...string) *controller.Pool {
	t.Helper()
	cfgs := make([]controller.Config, 0, len(hosts))
	for _, h := range hosts {
		cfg := controller.DefaultConfig(h)
		cfg.RepeatCommands = 1
		cfg.PauseBetweenCommands = 0
		cfgs = append(cfgs, cfg)
	}
	pool, err := controller.NewPoolWithTransport(cfgs, nil, send)
	if err != nil {
		t.Fatal(err)
	}
	return pool
}

func TestApply_OperationNames(t *testing.T) {
	rec := &recorder{}
	pool := newTestPool(t, rec.send, "127.0.0.1")
	c, _ := pool.Controller(0)

	brightness := 0.5
	ops := []struct {
		op   Op
		want string
	}{
		{Op{Name: "on", Group: 1}, "450055"},
		{Op{Name: "off", Group: 0}, "410055"},
		{Op{Name: "white", Group: 2}, "470055 c70055"},
		{Op{Name: "set_color", Group: 0, Color: "red"}, "420055 40b055"},
		{Op{Name: "set_brightness", Group: 0, Brightness: &brightness}, "420055 4e0e55"},
		{Op{Name: "disco", Group: 0}, "420055 4d0055"},
		{Op{Name: "nightmode", Group: 1}, "460055 c60055"},
	}
	for _, tt := range ops {
		rec.mu.Lock()
		rec.frames = nil
		rec.mu.Unlock()
		if err := Apply(c, tt.op); err != nil {
			t.Fatalf("Apply(%s): %v", tt.op.Name, err)
		}
		if got := rec.joined(); got != tt.want {
			t.Errorf("Apply(%s) frames = %s, want %s", tt.op.Name, got, tt.want)
		}
	}
}

func TestApply_UnknownOperation(t *testing.T) {
	rec := &recorder{}
	pool := newTestPool(t, rec.send, "127.0.0.1")
	c, _ := pool.Controller(0)

	if err := Apply(c, Op{Name: "explode"}); !errors.Is(err, protocol.ErrUnknownCommand) {
		t.Errorf("err = %v, want ErrUnknownCommand", err)
	}
	if err := Apply(c, Op{Name: "set_brightness"}); !errors.Is(err, protocol.ErrUnknownCommand) {
		t.Errorf("set_brightness without value err = %v, want ErrUnknownCommand", err)
	}
}

func TestParseColor(t *testing.T) {
	col, err := ParseColor("red")
	if err != nil || col.Kind() != protocol.ColorNamed || col.Name() != "red" {
		t.Errorf("ParseColor(red) = %+v, %v", col, err)
	}

	col, err = ParseColor("170")
	if err != nil || col.Kind() != protocol.ColorHue || col.HueValue() != 170 {
		t.Errorf("ParseColor(170) = %+v, %v", col, err)
	}

	col, err = ParseColor("#ff8000")
	if err != nil || col.Kind() != protocol.ColorRGB {
		t.Fatalf("ParseColor(#ff8000) = %+v, %v", col, err)
	}
	r, g, b := col.RGBValues()
	if r != 0xff || g != 0x80 || b != 0x00 {
		t.Errorf("RGB = %d,%d,%d", r, g, b)
	}

	for _, bad := range []string{"", "256", "-1", "#ff80", "#zzzzzz"} {
		if _, err := ParseColor(bad); !errors.Is(err, protocol.ErrUnknownColor) {
			t.Errorf("ParseColor(%q) err = %v, want ErrUnknownColor", bad, err)
		}
	}
}

func TestQueue_SerializesInOrder(t *testing.T) {
	rec := &recorder{}
	pool := newTestPool(t, rec.send, "127.0.0.1", "127.0.0.2")
	q := NewQueue(pool, nil, nil, []string{"a", "b"}, nil, 16)

	q.Enqueue(Op{Gateway: 0, Name: "on", Group: 1})
	q.Enqueue(Op{Gateway: 1, Name: "off", Group: 1})
	q.Enqueue(Op{Gateway: 0, Name: "off", Group: 1})
	q.Close()

	if got := rec.joined(); got != "450055 460055 460055" {
		t.Errorf("frames = %s, want enqueue order preserved", got)
	}
	rec.mu.Lock()
	hosts := strings.Join(rec.hosts, " ")
	rec.mu.Unlock()
	if hosts != "127.0.0.1 127.0.0.2 127.0.0.1" {
		t.Errorf("hosts = %s", hosts)
	}
}

func TestQueue_RejectsAfterClose(t *testing.T) {
	pool := newTestPool(t, (&recorder{}).send, "127.0.0.1")
	q := NewQueue(pool, nil, nil, nil, nil, 16)
	q.Close()
	if q.Enqueue(Op{Name: "on"}) {
		t.Error("Enqueue after Close must report false")
	}
}

func TestQueue_RunsScenes(t *testing.T) {
	rec := &recorder{}
	pool := newTestPool(t, rec.send, "127.0.0.1")
	resolver := func(name string) (int, []Op, bool) {
		if name != "evening" {
			return 0, nil, false
		}
		return 0, []Op{
			{Name: "on", Group: 1},
			{Name: "off", Group: 1},
		}, true
	}
	q := NewQueue(pool, nil, nil, []string{"a"}, resolver, 16)
	q.Enqueue(Op{Name: "scene", Scene: "evening"})
	q.Enqueue(Op{Name: "scene", Scene: "missing"})
	q.Close()

	if got := rec.joined(); got != "450055 460055" {
		t.Errorf("scene frames = %s", got)
	}
}

func TestFrameCounter(t *testing.T) {
	rec := &recorder{}
	counter := &FrameCounter{}
	pool := newTestPool(t, counter.Wrap(rec.send), "127.0.0.1")
	c, _ := pool.Controller(0)

	if err := c.On(0); err != nil {
		t.Fatal(err)
	}
	if counter.Count() != 1 {
		t.Errorf("Count() = %d, want 1", counter.Count())
	}
}
