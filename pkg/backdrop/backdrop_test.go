package backdrop_test

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"testing"

	"github.com/goliatone/go-signup/pkg/backdrop"
	"github.com/goliatone/go-signup/pkg/uischema"
)

func TestMount_WrapAndDestroy(t *testing.T) {
	effect, err := backdrop.Mount(context.Background(), backdrop.DefaultOptions())
	if err != nil {
		t.Fatalf("mount: %v", err)
	}

	region := effect.Wrap(template.HTML("<form></form>"))
	if !region.Active {
		t.Fatalf("expected active region")
	}
	if region.Children != "<form></form>" {
		t.Fatalf("children not passed through: %q", region.Children)
	}
	var opts map[string]any
	if err := json.Unmarshal([]byte(region.Options), &opts); err != nil {
		t.Fatalf("options json: %v", err)
	}
	if opts["color2"] != "#ff30c2" || opts["mouseControls"] != true || opts["gyroControls"] != false {
		t.Fatalf("unexpected options %v", opts)
	}

	effect.Destroy()
	effect.Destroy()

	if effect.Active() {
		t.Fatalf("expected inactive after destroy")
	}
	after := effect.Wrap(template.HTML("<p>still here</p>"))
	if after.Active || after.Options != "" {
		t.Fatalf("destroyed effect must render a plain container: %+v", after)
	}
	if after.Children != "<p>still here</p>" || after.Style != "background-color:#bcf8fb" {
		t.Fatalf("plain container lost content or fallback colour: %+v", after)
	}
}

func TestMount_UniqueIDs(t *testing.T) {
	a, err := backdrop.Mount(context.Background(), backdrop.DefaultOptions())
	if err != nil {
		t.Fatalf("mount a: %v", err)
	}
	b, err := backdrop.Mount(context.Background(), backdrop.DefaultOptions())
	if err != nil {
		t.Fatalf("mount b: %v", err)
	}
	defer a.Destroy()
	defer b.Destroy()
	if a.ID() == b.ID() {
		t.Fatalf("expected distinct ids, got %q", a.ID())
	}
}

func TestMount_InvalidOptions(t *testing.T) {
	opts := backdrop.DefaultOptions()
	opts.Color = "teal"
	if _, err := backdrop.Mount(context.Background(), opts); !errors.Is(err, backdrop.ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions, got %v", err)
	}

	opts = backdrop.DefaultOptions()
	opts.Scale = 0
	if _, err := backdrop.Mount(context.Background(), opts); !errors.Is(err, backdrop.ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions for scale, got %v", err)
	}
}

func TestMount_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := backdrop.Mount(ctx, backdrop.DefaultOptions()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFromCopy(t *testing.T) {
	opts := backdrop.FromCopy(uischema.BackdropCopy{Color: "#111111", Disabled: true})
	if opts.Color != "#111111" || opts.Color2 != "#ff30c2" || !opts.Disabled {
		t.Fatalf("unexpected options %+v", opts)
	}

	effect, err := backdrop.Mount(context.Background(), opts)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	defer effect.Destroy()
	if effect.Wrap("x").Active {
		t.Fatalf("disabled backdrop must not activate")
	}
}
