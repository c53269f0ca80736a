package http

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-comments/internal/bank"
	"github.com/mind-engage/mindengage-comments/internal/export"
	"github.com/mind-engage/mindengage-comments/internal/report"
	"github.com/mind-engage/mindengage-comments/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var formTmpl = template.Must(template.ParseFS(templateFS, "templates/form.html"))

const sessionCookie = "sid"

var genders = []string{"Male", "Female", "Not specified"}

type formValues struct {
	Year     string
	Name     string
	Gender   string
	Bands    map[string]int
	Addendum string
}

type bandField struct {
	Name     string
	Label    string
	Selected int
}

type formView struct {
	Target   int
	Grades   []string
	Genders  []string
	Bands    []int
	Fields   []bandField
	Form     formValues
	Result   *report.Result
	Error    string
	Comments []string
}

var bandFields = []struct{ name, label string }{
	{"att", "Attitude band"},
	{"read", "Reading achievement band"},
	{"write", "Writing achievement band"},
	{"read_t", "Reading target band"},
	{"write_t", "Writing target band"},
}

func defaultForm() formValues {
	fv := formValues{Year: bank.Year7.String(), Gender: genders[0], Bands: map[string]int{}}
	for _, f := range bandFields {
		fv.Bands[f.name] = int(bank.Bands[0])
	}
	return fv
}

func (d Deps) renderForm(w http.ResponseWriter, status int, s session.Session, fv formValues, res *report.Result, msg string) {
	grades := make([]string, 0, len(bank.Grades()))
	for _, g := range bank.Grades() {
		grades = append(grades, g.String())
	}
	fields := make([]bandField, len(bandFields))
	for i, f := range bandFields {
		fields[i] = bandField{Name: f.name, Label: f.label, Selected: fv.Bands[f.name]}
	}
	view := formView{
		Target:   d.Reports.Target(),
		Grades:   grades,
		Genders:  genders,
		Bands:    bandInts(),
		Fields:   fields,
		Form:     fv,
		Result:   res,
		Error:    msg,
		Comments: s.Lines(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := formTmpl.Execute(w, view); err != nil {
		d.logger().Error("render form", zap.Error(err))
	}
}

func (d Deps) sessionFromCookie(r *http.Request) (session.Session, bool, error) {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}
	return session.Load(r.Context(), d.Sessions, id)
}

func setSessionCookie(w http.ResponseWriter, s session.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// parseForm turns the submitted fields into a record. Values that fail to
// parse are reported; fields are echoed back either way.
func parseForm(r *http.Request) (formValues, report.StudentRecord, error) {
	fv := defaultForm()
	if err := r.ParseForm(); err != nil {
		return fv, report.StudentRecord{}, err
	}
	fv.Year = r.PostForm.Get("year")
	fv.Name = strings.TrimSpace(r.PostForm.Get("name"))
	fv.Gender = r.PostForm.Get("gender")
	fv.Addendum = r.PostForm.Get("attitude_target")

	var errs []error
	grade, err := bank.ParseGradeLevel(fv.Year)
	if err != nil {
		errs = append(errs, err)
	}
	bands := make([]bank.ScoreBand, len(bandFields))
	for i, f := range bandFields {
		b, err := bank.ParseScoreBand(r.PostForm.Get(f.name))
		if err != nil {
			errs = append(errs, err)
		}
		bands[i] = b
		fv.Bands[f.name] = int(b)
	}
	rec := report.StudentRecord{
		Name:          fv.Name,
		Gender:        fv.Gender,
		Grade:         grade,
		Attitude:      bands[0],
		Reading:       bands[1],
		Writing:       bands[2],
		ReadingTarget: bands[3],
		WritingTarget: bands[4],
		Addendum:      fv.Addendum,
	}
	return fv, rec, errors.Join(errs...)
}

// GET /
func (d Deps) FormPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _, err := d.sessionFromCookie(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		d.renderForm(w, http.StatusOK, s, defaultForm(), nil, "")
	}
}

// POST /
func (d Deps) FormSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _, err := d.sessionFromCookie(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		fv, rec, err := parseForm(r)
		if err != nil {
			d.renderForm(w, http.StatusBadRequest, s, fv, nil, err.Error())
			return
		}
		next, res, err := d.Reports.Submit(r.Context(), s, rec)
		if err != nil {
			msg := err.Error()
			if errors.Is(err, report.ErrNameRequired) {
				msg = "Enter a student name to generate a comment."
			}
			d.renderForm(w, statusFor(err), s, fv, nil, msg)
			return
		}
		if err := d.Sessions.Put(r.Context(), next); err != nil {
			writeErr(w, err)
			return
		}
		setSessionCookie(w, next)
		d.renderForm(w, http.StatusOK, next, fv, &res, "")
	}
}

// GET /report.docx, /report.txt
func (d Deps) DownloadHandler(f export.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, isNew, err := d.sessionFromCookie(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		if isNew || s.Len() == 0 {
			http.Error(w, "no comments generated yet", http.StatusNotFound)
			return
		}
		serveDocument(w, r, d.Reports, s, f)
	}
}

// POST /reset
func (d Deps) ResetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(sessionCookie); err == nil {
			_ = d.Sessions.Delete(r.Context(), c.Value)
		}
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1})
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
