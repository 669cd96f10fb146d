package render

import (
	"github.com/goliatone/go-signup/pkg/form"
	"github.com/goliatone/go-signup/pkg/registration"
	"github.com/goliatone/go-signup/pkg/uischema"
)

// FieldSpec is the presentation metadata of one input.
type FieldSpec struct {
	Name         registration.Field `json:"name"`
	Label        string             `json:"label"`
	InputType    string             `json:"inputType"`
	Autocomplete string             `json:"autocomplete,omitempty"`
}

// DefaultFieldSpecs describes the four inputs in display order.
func DefaultFieldSpecs() []FieldSpec {
	return []FieldSpec{
		{Name: registration.FieldFirstName, Label: "First Name", InputType: "text", Autocomplete: "given-name"},
		{Name: registration.FieldLastName, Label: "Last Name", InputType: "text", Autocomplete: "family-name"},
		{Name: registration.FieldEmail, Label: "Email", InputType: "email", Autocomplete: "email"},
		{Name: registration.FieldPassword, Label: "Password", InputType: "password", Autocomplete: "new-password"},
	}
}

// ViewOptions carries the per-request inputs NewView needs besides the
// controller snapshot.
type ViewOptions struct {
	// Copy supplies texts; the zero value means uischema.Default().
	Copy uischema.Copy
	// Fields overrides DefaultFieldSpecs, e.g. with specs read from the API
	// description.
	Fields []FieldSpec
	// Action is the form's POST target. Defaults to "/".
	Action string
	// Hidden adds extra hidden inputs. The action field is always set.
	Hidden        map[string]string
	StylesheetURL string
	LiveURL       string
}

// View is the renderer-agnostic page model.
type View struct {
	Title         string        `json:"title"`
	Action        string        `json:"action"`
	Method        string        `json:"method"`
	Status        form.Status   `json:"status"`
	Banner        *BannerView   `json:"banner,omitempty"`
	Fields        []FieldView   `json:"fields"`
	Button        ButtonView    `json:"button"`
	Hidden        []HiddenField `json:"hidden,omitempty"`
	StylesheetURL string        `json:"stylesheetURL,omitempty"`
	LiveURL       string        `json:"liveURL,omitempty"`
}

// FieldView is one input with its current value and inline error.
type FieldView struct {
	Name         string `json:"name"`
	Label        string `json:"label"`
	Type         string `json:"type"`
	Autocomplete string `json:"autocomplete,omitempty"`
	Placeholder  string `json:"placeholder,omitempty"`
	HelpText     string `json:"helpText,omitempty"`
	Value        string `json:"value"`
	Error        string `json:"error,omitempty"`
	Invalid      bool   `json:"invalid"`
}

// BannerView is the status message above the action button.
type BannerView struct {
	Text string `json:"text"`
	Tone string `json:"tone"`
}

// ButtonView is the single action button shown for the current status.
type ButtonView struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// NewView assembles the page model for a controller snapshot.
func NewView(snap form.Snapshot, opts ViewOptions) View {
	copyDoc := opts.Copy
	if copyDoc.Title == "" && len(copyDoc.Fields) == 0 {
		copyDoc = uischema.Default()
	}
	specs := opts.Fields
	if len(specs) == 0 {
		specs = DefaultFieldSpecs()
	}
	action := opts.Action
	if action == "" {
		action = "/"
	}

	view := View{
		Title:         copyDoc.Title,
		Action:        action,
		Method:        "post",
		Status:        snap.Status,
		Fields:        make([]FieldView, 0, len(specs)),
		StylesheetURL: opts.StylesheetURL,
		LiveURL:       opts.LiveURL,
	}

	for _, spec := range specs {
		view.Fields = append(view.Fields, fieldView(spec, copyDoc, snap))
	}

	if text := copyDoc.Banner(snap.Status); text != "" {
		tone := "error"
		if snap.Status == form.StatusSuccess {
			tone = "success"
		}
		view.Banner = &BannerView{Text: text, Tone: tone}
	}

	buttonAction := ActionSubmit
	if snap.Status.AllowsReset() {
		buttonAction = ActionReset
	}
	view.Button = ButtonView{Label: copyDoc.Button(snap.Status), Action: buttonAction}
	view.Hidden = SortedHiddenFields(MergeHiddenFields(opts.Hidden, Hidden(ActionFieldName, buttonAction)))
	return view
}

func fieldView(spec FieldSpec, copyDoc uischema.Copy, snap form.Snapshot) FieldView {
	label := spec.Label
	fc, configured := copyDoc.Fields[spec.Name.String()]
	if configured && fc.Label != "" {
		label = fc.Label
	}
	if label == "" {
		label = spec.Name.String()
	}
	inputType := spec.InputType
	if inputType == "" {
		inputType = "text"
	}

	fv := FieldView{
		Name:         spec.Name.String(),
		Label:        label,
		Type:         inputType,
		Autocomplete: spec.Autocomplete,
		Placeholder:  fc.Placeholder,
		HelpText:     fc.HelpText,
		Value:        snap.Values.Get(spec.Name),
	}
	if msg := snap.Errors.Message(spec.Name); msg != "" {
		fv.Error = msg
		fv.Invalid = true
	}
	return fv
}
