package render_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-signup/pkg/form"
	"github.com/goliatone/go-signup/pkg/registration"
	"github.com/goliatone/go-signup/pkg/render"
	"github.com/goliatone/go-signup/pkg/testsupport"
	"github.com/goliatone/go-signup/pkg/uischema"
)

func TestNewView_Idle(t *testing.T) {
	view := render.NewView(form.New().Snapshot(), render.ViewOptions{})

	if view.Title != "Sign-Up Club 👇" {
		t.Fatalf("unexpected title %q", view.Title)
	}
	if view.Banner != nil {
		t.Fatalf("idle view must not carry a banner, got %+v", view.Banner)
	}
	wantButton := render.ButtonView{Label: "Register 🚀", Action: render.ActionSubmit}
	if diff := cmp.Diff(wantButton, view.Button); diff != "" {
		t.Fatalf("button mismatch (-want +got):\n%s", diff)
	}
	wantHidden := []render.HiddenField{{Name: render.ActionFieldName, Value: render.ActionSubmit}}
	if diff := cmp.Diff(wantHidden, view.Hidden); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}
	if view.Action != "/" || view.Method != "post" {
		t.Fatalf("unexpected form target %s %s", view.Method, view.Action)
	}
	for _, field := range view.Fields {
		if field.Invalid || field.Error != "" {
			t.Fatalf("idle field %s must be clean: %+v", field.Name, field)
		}
	}
}

func TestNewView_Warning(t *testing.T) {
	snap := testsupport.SubmittedSnapshot(t, registration.FormValues{
		FirstName: "Ada",
		Email:     "ada@yahoo.com",
		Password:  "weak",
	})

	view := render.NewView(snap, render.ViewOptions{})

	want := []render.FieldView{
		{Name: "firstName", Label: "First Name", Type: "text", Autocomplete: "given-name", Value: "Ada"},
		{Name: "lastName", Label: "Last Name", Type: "text", Autocomplete: "family-name", Error: registration.MsgLastNameRequired, Invalid: true},
		{Name: "email", Label: "Email", Type: "email", Autocomplete: "email", Value: "ada@yahoo.com", Error: registration.MsgEmailFormat, Invalid: true},
		{Name: "password", Label: "Password", Type: "password", Autocomplete: "new-password", Value: "weak", Error: registration.MsgPasswordStrength, Invalid: true},
	}
	if diff := cmp.Diff(want, view.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	wantBanner := &render.BannerView{Text: "Please complete all fields.", Tone: "error"}
	if diff := cmp.Diff(wantBanner, view.Banner); diff != "" {
		t.Fatalf("banner mismatch (-want +got):\n%s", diff)
	}
}

func TestNewView_DuplicateEmailFailure(t *testing.T) {
	values := testsupport.ValidValues()
	values.Email = "test@gmail.com"
	snap := testsupport.SubmittedSnapshot(t, values)

	view := render.NewView(snap, render.ViewOptions{})

	if view.Status != form.StatusFailure {
		t.Fatalf("expected failure status, got %s", view.Status)
	}
	wantBanner := &render.BannerView{Text: "Registration failed. 🙃", Tone: "error"}
	if diff := cmp.Diff(wantBanner, view.Banner); diff != "" {
		t.Fatalf("banner mismatch (-want +got):\n%s", diff)
	}
	if view.Button.Action != render.ActionSubmit {
		t.Fatalf("failure keeps the submit button, got %+v", view.Button)
	}
}

func TestNewView_SuccessOffersReset(t *testing.T) {
	snap := testsupport.SubmittedSnapshot(t, testsupport.ValidValues())

	view := render.NewView(snap, render.ViewOptions{
		Action: "/signup",
		Hidden: map[string]string{"csrf": "token", render.ActionFieldName: "submit"},
	})

	wantButton := render.ButtonView{Label: "Register another user", Action: render.ActionReset}
	if diff := cmp.Diff(wantButton, view.Button); diff != "" {
		t.Fatalf("button mismatch (-want +got):\n%s", diff)
	}
	wantHidden := []render.HiddenField{
		{Name: render.ActionFieldName, Value: render.ActionReset},
		{Name: "csrf", Value: "token"},
	}
	if diff := cmp.Diff(wantHidden, view.Hidden); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}
	if view.Banner == nil || view.Banner.Tone != "success" {
		t.Fatalf("expected success banner, got %+v", view.Banner)
	}
	if view.Action != "/signup" {
		t.Fatalf("unexpected action %q", view.Action)
	}
}

func TestNewView_CopyOverridesLabels(t *testing.T) {
	copyDoc := uischema.Default().Merge(uischema.Copy{
		Fields: map[string]uischema.FieldCopy{
			"email": {Label: "Gmail", Placeholder: "you@gmail.com"},
		},
	})
	specs := []render.FieldSpec{
		{Name: registration.FieldEmail, Label: "E-mail address"},
	}

	view := render.NewView(form.New().Snapshot(), render.ViewOptions{Copy: copyDoc, Fields: specs})

	want := []render.FieldView{{Name: "email", Label: "Gmail", Type: "text", Placeholder: "you@gmail.com"}}
	if diff := cmp.Diff(want, view.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONRenderer_RedactsPassword(t *testing.T) {
	snap := testsupport.SubmittedSnapshot(t, testsupport.ValidValues())
	view := render.NewView(snap, render.ViewOptions{})

	payload, err := render.JSONRenderer{}.Render(testsupport.Context(), view)
	if err != nil {
		t.Fatalf("render json: %v", err)
	}

	var decoded render.View
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	for _, field := range decoded.Fields {
		if field.Type == "password" && field.Value != "" {
			t.Fatalf("password value leaked: %q", field.Value)
		}
	}
	if view.Fields[3].Value != "Abcdef1!" {
		t.Fatalf("rendering must not mutate the view")
	}
	if decoded.Status != form.StatusSuccess {
		t.Fatalf("unexpected status %s", decoded.Status)
	}
}
