package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/techvote/techvote/internal/content"
	"github.com/techvote/techvote/internal/models"
	"github.com/techvote/techvote/internal/preview"
)

var (
	// ErrIncomplete is returned when a required field is empty at submit time.
	ErrIncomplete = errors.New("report is incomplete")
	// ErrInconsistentLocation is returned by strict validation.
	ErrInconsistentLocation = errors.New("location does not match the constituency table")
	// ErrAlreadySubmitted is returned for edits after submission.
	ErrAlreadySubmitted = errors.New("report already submitted")
	// ErrUnsupportedMedia is returned for attachments that are not images or videos.
	ErrUnsupportedMedia = errors.New("only image or video attachments are supported")
	// ErrAttachmentTooLarge is returned when an attachment exceeds the size cap.
	ErrAttachmentTooLarge = errors.New("attachment is too large")
	// ErrUnknownOption is returned when a role or category is not in the catalog.
	ErrUnknownOption = errors.New("unknown option")
)

// MissingFieldsError lists the required fields that were empty.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrIncomplete, strings.Join(e.Fields, ", "))
}

func (e *MissingFieldsError) Unwrap() error {
	return ErrIncomplete
}

// State is the lifecycle position of a form.
type State string

const (
	StateEditing   State = "editing"
	StateSubmitted State = "submitted"
)

// MediaFile is the single attachment of a draft. Data stays server-side; the
// preview handle is what clients see.
type MediaFile struct {
	Name     string         `json:"name"`
	MIMEType string         `json:"mime_type"`
	Size     int            `json:"size"`
	Preview  preview.Handle `json:"preview"`
	Data     []byte         `json:"-"`
}

// Draft is the in-progress report.
type Draft struct {
	Role        string     `json:"role"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Attachment  *MediaFile `json:"attachment,omitempty"`
	Location    Selection  `json:"location"`
}

func newDraft() Draft {
	return Draft{Role: DefaultRole}
}

// Options tune form validation.
type Options struct {
	StrictLocationValidation bool
	MaxAttachmentBytes       int64
}

// Form is one report form: Editing -> Submitted -> Restart -> Editing.
// It is not safe for concurrent use; callers serialize access.
type Form struct {
	selector *Selector
	previews *preview.Registry
	sink     Sink
	opts     Options

	state State
	draft Draft
	last  *models.Report
}

// NewForm creates a form in the Editing state with a fresh draft.
func NewForm(selector *Selector, previews *preview.Registry, sink Sink, opts Options) *Form {
	return &Form{
		selector: selector,
		previews: previews,
		sink:     sink,
		opts:     opts,
		state:    StateEditing,
		draft:    newDraft(),
	}
}

// State returns the current lifecycle state.
func (f *Form) State() State {
	return f.state
}

// Draft returns a copy of the current draft.
func (f *Form) Draft() Draft {
	d := f.draft
	if d.Attachment != nil {
		a := *d.Attachment
		d.Attachment = &a
	}
	return d
}

// LastReport returns the snapshot frozen by the last successful submit.
func (f *Form) LastReport() *models.Report {
	return f.last
}

// Selector returns the location selector the form validates against.
func (f *Form) Selector() *Selector {
	return f.selector
}

// Options returns the validation options.
func (f *Form) Options() Options {
	return f.opts
}

func (f *Form) editable() error {
	if f.state != StateEditing {
		return ErrAlreadySubmitted
	}
	return nil
}

// SetDivision sets the division and clears district and seat.
func (f *Form) SetDivision(name string) error {
	if err := f.editable(); err != nil {
		return err
	}
	f.draft.Location.SetDivision(name)
	return nil
}

// SetDistrict sets the district and clears the seat.
func (f *Form) SetDistrict(name string) error {
	if err := f.editable(); err != nil {
		return err
	}
	f.draft.Location.SetDistrict(name)
	return nil
}

// SetSeat sets the seat.
func (f *Form) SetSeat(name string) error {
	if err := f.editable(); err != nil {
		return err
	}
	f.draft.Location.SetSeat(name)
	return nil
}

// SetRole selects a reporter role by key or label. Empty restores the default.
func (f *Form) SetRole(role string) error {
	if err := f.editable(); err != nil {
		return err
	}
	if role == "" {
		f.draft.Role = DefaultRole
		return nil
	}
	opt, ok := content.Find(Roles, role)
	if !ok {
		return fmt.Errorf("%w: role %q", ErrUnknownOption, role)
	}
	f.draft.Role = opt.Key
	return nil
}

// SetCategory selects the incident category by key or label. Empty clears it.
func (f *Form) SetCategory(category string) error {
	if err := f.editable(); err != nil {
		return err
	}
	if category == "" {
		f.draft.Category = ""
		return nil
	}
	opt, ok := content.Find(Categories, category)
	if !ok {
		return fmt.Errorf("%w: category %q", ErrUnknownOption, category)
	}
	f.draft.Category = opt.Key
	return nil
}

// SetDescription sets the free-text description.
func (f *Form) SetDescription(text string) error {
	if err := f.editable(); err != nil {
		return err
	}
	f.draft.Description = text
	return nil
}

// AttachFile replaces any existing attachment. The previous preview handle is
// released before the new one is acquired.
func (f *Form) AttachFile(name, mimeType string, data []byte) (preview.Handle, error) {
	if err := f.editable(); err != nil {
		return preview.Handle{}, err
	}
	if !IsSupportedMedia(mimeType) {
		return preview.Handle{}, fmt.Errorf("%w: %q", ErrUnsupportedMedia, mimeType)
	}
	if f.opts.MaxAttachmentBytes > 0 && int64(len(data)) > f.opts.MaxAttachmentBytes {
		return preview.Handle{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrAttachmentTooLarge, len(data), f.opts.MaxAttachmentBytes)
	}

	f.releaseAttachment()
	h := f.previews.Acquire(name, mimeType, data)
	f.draft.Attachment = &MediaFile{
		Name:     name,
		MIMEType: mimeType,
		Size:     len(data),
		Preview:  h,
		Data:     data,
	}
	return h, nil
}

// ClearFile releases the preview and removes the attachment. It is a no-op
// when there is no attachment.
func (f *Form) ClearFile() error {
	if err := f.editable(); err != nil {
		return err
	}
	f.releaseAttachment()
	return nil
}

// Submit validates the draft, freezes it into a report and hands it to the
// sink. A sink failure leaves the form in Editing with the draft intact.
func (f *Form) Submit(ctx context.Context) (*models.Report, error) {
	if err := f.editable(); err != nil {
		return nil, err
	}

	d := f.draft
	var missing []string
	if d.Category == "" {
		missing = append(missing, "category")
	}
	if d.Location.Division == "" {
		missing = append(missing, "division")
	}
	if d.Location.District == "" {
		missing = append(missing, "district")
	}
	if d.Location.Seat == "" {
		missing = append(missing, "seat")
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	if f.opts.StrictLocationValidation {
		if err := f.selector.Consistent(d.Location); err != nil {
			return nil, err
		}
	}

	role := d.Role
	if role == "" {
		role = DefaultRole
	}

	r := &models.Report{
		ID:           uuid.New().String(),
		Division:     d.Location.Division,
		District:     d.Location.District,
		Seat:         d.Location.Seat,
		ReporterRole: role,
		Category:     d.Category,
		Description:  d.Description,
		SubmittedAt:  time.Now().UTC(),
	}
	if a := d.Attachment; a != nil {
		r.HasMedia = true
		r.MediaName = a.Name
		r.MediaType = a.MIMEType
		r.MediaSize = a.Size
	}

	if err := f.sink.Send(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to transmit report: %w", err)
	}

	f.releaseAttachment()
	f.state = StateSubmitted
	f.last = r
	return r, nil
}

// Restart discards the current draft and starts a fresh one.
func (f *Form) Restart() {
	f.releaseAttachment()
	f.draft = newDraft()
	f.state = StateEditing
	f.last = nil
}

// Close releases every resource held by the form.
func (f *Form) Close() {
	f.releaseAttachment()
}

func (f *Form) releaseAttachment() {
	if f.draft.Attachment == nil {
		return
	}
	f.previews.Release(f.draft.Attachment.Preview.ID)
	f.draft.Attachment = nil
}

// IsSupportedMedia reports whether mimeType is an image or video type.
func IsSupportedMedia(mimeType string) bool {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	return strings.HasPrefix(mt, "image/") || strings.HasPrefix(mt, "video/")
}
