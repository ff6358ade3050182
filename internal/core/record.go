package core

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// StandardRecord is one row of standards-document metadata.
// Every attribute is text; loaders coerce other source types before
// constructing a record.
type StandardRecord struct {
	ID                            string `json:"id" yaml:"id"`
	JurisdictionCountry           string `json:"jurisdictionCountry" yaml:"jurisdictionCountry"`
	DocumentIdentifier            string `json:"documentIdentifier" yaml:"documentIdentifier"`
	EnvironmentalPerformanceFocus string `json:"environmentalPerformanceFocus" yaml:"environmentalPerformanceFocus"`
	LifecycleStageFocus           string `json:"lifecycleStageFocus" yaml:"lifecycleStageFocus"`
	Title                         string `json:"title" yaml:"title"`
	Description                   string `json:"description" yaml:"description"`
	Abstract                      string `json:"abstract" yaml:"abstract"`
	PublicationDate               string `json:"publicationDate" yaml:"publicationDate"`
	StandardType                  string `json:"standardType" yaml:"standardType"`
	Status                        string `json:"status" yaml:"status"`
	TechnicalCommittee            string `json:"technicalCommittee" yaml:"technicalCommittee"`
	IssuingBody                   string `json:"issuingBody" yaml:"issuingBody"`
}

// Column describes one grid column: the record field it reads and the
// header text shown in the grid and in exports.
type Column struct {
	Field  string
	Header string
	// Facet marks the column rendered as a clickable facet badge.
	Facet bool
}

// Field names, in declared column order.
const (
	FieldID                            = "id"
	FieldJurisdictionCountry           = "jurisdictionCountry"
	FieldDocumentIdentifier            = "documentIdentifier"
	FieldEnvironmentalPerformanceFocus = "environmentalPerformanceFocus"
	FieldLifecycleStageFocus           = "lifecycleStageFocus"
	FieldTitle                         = "title"
	FieldDescription                   = "description"
	FieldAbstract                      = "abstract"
	FieldPublicationDate               = "publicationDate"
	FieldStandardType                  = "standardType"
	FieldStatus                        = "status"
	FieldTechnicalCommittee            = "technicalCommittee"
	FieldIssuingBody                   = "issuingBody"
)

var columns = []Column{
	{Field: FieldID, Header: "AC Code"},
	{Field: FieldJurisdictionCountry, Header: "Jurisdiction Country", Facet: true},
	{Field: FieldDocumentIdentifier, Header: "Document Identifier"},
	{Field: FieldEnvironmentalPerformanceFocus, Header: "Environmental Performance Areas of Focus"},
	{Field: FieldLifecycleStageFocus, Header: "Lifecycle Stage Areas of Focus"},
	{Field: FieldTitle, Header: "Title"},
	{Field: FieldDescription, Header: "Description"},
	{Field: FieldAbstract, Header: "Abstract"},
	{Field: FieldPublicationDate, Header: "Publication Date"},
	{Field: FieldStandardType, Header: "Standard Type"},
	{Field: FieldStatus, Header: "Status"},
	{Field: FieldTechnicalCommittee, Header: "Technical Committee"},
	{Field: FieldIssuingBody, Header: "Issuing Body"},
}

// Columns returns the column schema in declared order.
func Columns() []Column {
	return slices.Clone(columns)
}

// ColumnByField looks up a column by field name (case-insensitive).
func ColumnByField(field string) (Column, bool) {
	for _, c := range columns {
		if strings.EqualFold(c.Field, field) {
			return c, true
		}
	}
	return Column{}, false
}

// Value returns the attribute stored under field, or "" for an unknown field.
func (r StandardRecord) Value(field string) string {
	switch field {
	case FieldID:
		return r.ID
	case FieldJurisdictionCountry:
		return r.JurisdictionCountry
	case FieldDocumentIdentifier:
		return r.DocumentIdentifier
	case FieldEnvironmentalPerformanceFocus:
		return r.EnvironmentalPerformanceFocus
	case FieldLifecycleStageFocus:
		return r.LifecycleStageFocus
	case FieldTitle:
		return r.Title
	case FieldDescription:
		return r.Description
	case FieldAbstract:
		return r.Abstract
	case FieldPublicationDate:
		return r.PublicationDate
	case FieldStandardType:
		return r.StandardType
	case FieldStatus:
		return r.Status
	case FieldTechnicalCommittee:
		return r.TechnicalCommittee
	case FieldIssuingBody:
		return r.IssuingBody
	default:
		return ""
	}
}

// Set assigns value to field. It reports false for an unknown field.
func (r *StandardRecord) Set(field, value string) bool {
	switch field {
	case FieldID:
		r.ID = value
	case FieldJurisdictionCountry:
		r.JurisdictionCountry = value
	case FieldDocumentIdentifier:
		r.DocumentIdentifier = value
	case FieldEnvironmentalPerformanceFocus:
		r.EnvironmentalPerformanceFocus = value
	case FieldLifecycleStageFocus:
		r.LifecycleStageFocus = value
	case FieldTitle:
		r.Title = value
	case FieldDescription:
		r.Description = value
	case FieldAbstract:
		r.Abstract = value
	case FieldPublicationDate:
		r.PublicationDate = value
	case FieldStandardType:
		r.StandardType = value
	case FieldStatus:
		r.Status = value
	case FieldTechnicalCommittee:
		r.TechnicalCommittee = value
	case FieldIssuingBody:
		r.IssuingBody = value
	default:
		return false
	}
	return true
}

// Values returns every attribute in column order.
func (r StandardRecord) Values() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = r.Value(c.Field)
	}
	return out
}

// ErrDuplicateRecordID is returned when two records share an id.
var ErrDuplicateRecordID = errors.New("duplicate record id")

// ErrMissingRecordID is returned when a record has an empty id.
var ErrMissingRecordID = errors.New("missing record id")

// Dataset is an immutable, ordered sequence of records with unique ids.
type Dataset struct {
	records []StandardRecord
	index   map[string]int
}

// NewDataset validates records and freezes them into a Dataset.
// The input slice is copied; later changes to it are not observed.
func NewDataset(records []StandardRecord) (*Dataset, error) {
	ds := &Dataset{
		records: slices.Clone(records),
		index:   make(map[string]int, len(records)),
	}
	for i, rec := range ds.records {
		if strings.TrimSpace(rec.ID) == "" {
			return nil, fmt.Errorf("record %d: %w", i+1, ErrMissingRecordID)
		}
		if prev, ok := ds.index[rec.ID]; ok {
			return nil, fmt.Errorf("records %d and %d: %w %q", prev+1, i+1, ErrDuplicateRecordID, rec.ID)
		}
		ds.index[rec.ID] = i
	}
	return ds, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns a copy of all records in dataset order.
func (d *Dataset) Records() []StandardRecord {
	return slices.Clone(d.records)
}

// Get returns the record with the given id.
func (d *Dataset) Get(id string) (StandardRecord, bool) {
	i, ok := d.index[id]
	if !ok {
		return StandardRecord{}, false
	}
	return d.records[i], true
}

// Resolve returns the records whose ids are in ids, in dataset order.
// Ids absent from the dataset are ignored.
func (d *Dataset) Resolve(ids []string) []StandardRecord {
	if len(ids) == 0 {
		return nil
	}
	positions := make([]int, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if i, ok := d.index[id]; ok && !seen[i] {
			seen[i] = true
			positions = append(positions, i)
		}
	}
	slices.Sort(positions)

	out := make([]StandardRecord, len(positions))
	for i, pos := range positions {
		out[i] = d.records[pos]
	}
	return out
}
