// Package parsing turns the labeled-template text produced by the language
// model into typed work, education and certification records. The template
// is treated as a formal grammar: a named-capture pattern per block plus an
// enumerated set of normalization rules for the date fields, which are the
// part the model gets wrong most often.
package parsing

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/asalazar/cv-features/internal/dates"
	"github.com/asalazar/cv-features/internal/types"
)

// blockPattern captures one template block. End Date and Brief are
// optional because the model regularly drops the line break before them
// or omits them outright.
var blockPattern = regexp.MustCompile(
	`Type:\W*(?P<type>.*)(\WManagement:\W*(?P<management>.*))?` +
		`\WTitle:\W*(?P<title>.*)\WInstitution:\W*(?P<institution>.*)` +
		`\WStart Date:\W*(?P<start>.*)(\WEnd Date:\W*(?P<end>.*))?` +
		`\W(Brief:\W*(?P<brief>.*))?`)

const (
	// present is the literal the template uses for an ongoing position.
	present = "Present"
	// fictionalSpan is added to a known start when the end is missing.
	fictionalSpan = 90 * 24 * time.Hour
)

// Resume holds the typed records parsed out of one model response.
type Resume struct {
	Work           []types.WorkRecord
	Education      []types.EducationRecord
	Certifications []types.CertificationRecord
}

// Parser parses model responses. Blocks that cannot be interpreted are
// logged and skipped; Parse itself never fails.
type Parser struct {
	log *zap.Logger
}

// NewParser returns a Parser that reports skipped blocks through log.
func NewParser(log *zap.Logger) *Parser {
	return &Parser{log: log}
}

// Parse extracts all template blocks from response. createdAt is the
// document's reference timestamp, used to resolve "Present" end dates.
// Work records come back sorted ascending by end date.
func (p *Parser) Parse(response string, createdAt time.Time) Resume {
	var resume Resume

	for _, match := range blockPattern.FindAllStringSubmatch(response, -1) {
		fields := captureGroups(match)
		if err := p.parseBlock(fields, createdAt, &resume); err != nil {
			p.log.Warn("skipping malformed template block",
				zap.String("type", fields["type"]),
				zap.String("title", fields["title"]),
				zap.Error(err))
		}
	}

	sortWork(resume.Work)
	return resume
}

// parseBlock normalizes one captured block and appends it to the matching
// record list.
func (p *Parser) parseBlock(fields map[string]string, createdAt time.Time, resume *Resume) error {
	// The model commonly forgets the line break after the start date, so
	// the end date ends up captured inside the start field. Split before
	// cleaning the individual parts.
	if idx := strings.Index(fields["start"], "End Date:"); idx >= 0 {
		fields["end"] = fields["start"][idx+len("End Date:"):]
		fields["start"] = fields["start"][:idx]
	}

	for k, v := range fields {
		fields[k] = CleanField(v)
	}

	start, end, err := p.parseDates(fields)
	if err != nil {
		return err
	}

	kind := strings.ToLower(fields["type"])
	switch {
	case strings.Contains(kind, "work experience"):
		resume.Work = append(resume.Work, normalizeWork(fields, start, end, createdAt))
	case strings.Contains(kind, "education"):
		edu := types.EducationRecord{
			Title:       fields["title"],
			Institution: fields["institution"],
			Level:       ClassifyEducation(fields["title"]),
		}
		if start.known {
			edu.Start = start.time
		}
		if end.known {
			edu.End = end.time
		}
		resume.Education = append(resume.Education, edu)
	case strings.Contains(kind, "certification"):
		resume.Certifications = append(resume.Certifications, types.CertificationRecord{
			Title: fields["title"],
			Brief: fields["brief"],
		})
	}
	return nil
}

// parsedDate distinguishes a parsed instant from NA and from the literal
// Present marker.
type parsedDate struct {
	time    time.Time
	known   bool
	present bool
}

// parseDates interprets the start and end fields, mutating fields["end"]
// when a stray "present" token in the start field reveals an ongoing
// position the model failed to label.
func (p *Parser) parseDates(fields map[string]string) (start, end parsedDate, err error) {
	if s := fields["start"]; s != types.NA && s != present {
		parsed, perr := dates.Parse(s)
		if perr != nil {
			return start, end, &ParseError{Field: "start", Cause: perr}
		}
		// The model often writes "March 2019 - present" as the start and
		// omits the end field entirely.
		if parsed.HasLeftover("present") {
			fields["end"] = present
		}
		start = parsedDate{time: parsed.Time, known: true}
	}

	switch e := fields["end"]; {
	case e == present:
		end = parsedDate{present: true}
	case e != types.NA:
		parsed, perr := dates.Parse(e)
		if perr != nil {
			return start, end, &ParseError{Field: "end", Cause: perr}
		}
		end = parsedDate{time: parsed.Time, known: true}
	}
	return start, end, nil
}

// normalizeWork applies the work-experience date rules: the no-date
// sentinel pair, the synthesized 90-day end, and Present resolution to the
// first of the reference month.
func normalizeWork(fields map[string]string, start, end parsedDate, createdAt time.Time) types.WorkRecord {
	rec := types.WorkRecord{
		Title:       fields["title"],
		Institution: fields["institution"],
		Brief:       fields["brief"],
		Management:  !strings.EqualFold(fields["management"], "no"),
	}

	switch {
	case !start.known:
		// No usable timeline without a start; an end on its own cannot
		// anchor an interval.
		rec.Start, rec.End = types.SentinelStart, types.SentinelEnd
	case !end.known && !end.present:
		rec.Start = start.time
		rec.End = start.time.Add(fictionalSpan)
		rec.Fictional = true
	case end.present:
		rec.Start = start.time
		rec.End = dates.FirstOfMonth(createdAt)
	default:
		rec.Start = start.time
		rec.End = end.time
	}
	return rec
}

// sortWork orders records ascending by end date, falling back to the
// start when an end is somehow missing. Aggregation does not depend on
// this order, but deterministic output does.
func sortWork(work []types.WorkRecord) {
	sort.SliceStable(work, func(i, j int) bool {
		return sortKey(work[i]).Before(sortKey(work[j]))
	})
}

func sortKey(w types.WorkRecord) time.Time {
	if w.End.IsZero() {
		return w.Start
	}
	return w.End
}

// captureGroups maps the pattern's named groups onto their captured text.
func captureGroups(match []string) map[string]string {
	fields := make(map[string]string)
	for i, name := range blockPattern.SubexpNames() {
		if name != "" && i < len(match) {
			fields[name] = match[i]
		}
	}
	return fields
}
