// Package export materializes filtered event sets into interchange formats.
// Every encoder works on the same flattened row shape, so format-specific
// code never touches nested structures.
package export

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/parkwise/parkd/internal/domain"
)

// notAvailable fills every missing value so all three formats agree on what
// "absent" looks like.
const notAvailable = "N/A"

// FlatEvent is one event with every details/context sub-field hoisted to the
// top level. All fields are strings; maps are serialized to compact JSON.
type FlatEvent struct {
	ID            string `json:"id"`
	CreatedAt     string `json:"createdAt"`
	Level         string `json:"level"`
	Action        string `json:"action"`
	Message       string `json:"message"`
	UserID        string `json:"userId"`
	Resource      string `json:"resource"`
	ResourceID    string `json:"resourceId"`
	Error         string `json:"error"`
	Reason        string `json:"reason"`
	StackTrace    string `json:"stackTrace"`
	PreviousState string `json:"previousState"`
	NewState      string `json:"newState"`
	Metadata      string `json:"metadata"`
	Method        string `json:"method"`
	URL           string `json:"url"`
	StatusCode    string `json:"statusCode"`
	ResponseTime  string `json:"responseTime"`
	IP            string `json:"ip"`
	UserAgent     string `json:"userAgent"`
	Device        string `json:"device"`
}

// Columns is the header row; Row emits values in the same order.
func Columns() []string {
	return []string{
		"id", "createdAt", "level", "action", "message",
		"userId", "resource", "resourceId",
		"error", "reason", "stackTrace", "previousState", "newState", "metadata",
		"method", "url", "statusCode", "responseTime", "ip", "userAgent", "device",
	}
}

func (f FlatEvent) Row() []string {
	return []string{
		f.ID, f.CreatedAt, f.Level, f.Action, f.Message,
		f.UserID, f.Resource, f.ResourceID,
		f.Error, f.Reason, f.StackTrace, f.PreviousState, f.NewState, f.Metadata,
		f.Method, f.URL, f.StatusCode, f.ResponseTime, f.IP, f.UserAgent, f.Device,
	}
}

// Flatten hoists one event into a FlatEvent.
func Flatten(e *domain.Event) FlatEvent {
	f := FlatEvent{
		ID:            strconv.FormatInt(e.ID, 10),
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		Level:         string(e.Level),
		Action:        string(e.Action),
		Message:       e.Message,
		UserID:        orNA(e.UserID),
		Resource:      orNA(e.Resource),
		ResourceID:    orNA(e.ResourceID),
		Error:         notAvailable,
		Reason:        notAvailable,
		StackTrace:    notAvailable,
		PreviousState: notAvailable,
		NewState:      notAvailable,
		Metadata:      notAvailable,
		Method:        notAvailable,
		URL:           notAvailable,
		StatusCode:    notAvailable,
		ResponseTime:  notAvailable,
		IP:            notAvailable,
		UserAgent:     notAvailable,
		Device:        notAvailable,
	}

	if d := e.Details; d != nil {
		f.Error = orNA(d.Error)
		f.Reason = orNA(d.Reason)
		f.StackTrace = orNA(d.StackTrace)
		f.PreviousState = mapOrNA(d.PreviousState)
		f.NewState = mapOrNA(d.NewState)
		f.Metadata = mapOrNA(d.Metadata)
	}

	if c := e.Context; c != nil {
		f.Method = orNA(c.Method)
		f.URL = orNA(c.URL)
		f.IP = orNA(c.IP)
		f.UserAgent = orNA(c.UserAgent)
		f.Device = orNA(c.Device)
		if c.StatusCode != 0 {
			f.StatusCode = strconv.Itoa(c.StatusCode)
		}
		if c.ResponseTime != 0 {
			f.ResponseTime = strconv.FormatInt(c.ResponseTime, 10)
		}
	}

	return f
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

func mapOrNA(m map[string]any) string {
	if len(m) == 0 {
		return notAvailable
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return notAvailable
	}
	return string(raw)
}
