package api

import (
	"goprofile/domain/profile"
	"goprofile/domain/record"
)

// OptionsPayload is the wire form of profiling options; absent fields take
// the documented defaults
type OptionsPayload struct {
	Delimiter           *string `json:"delimiter,omitempty"`
	SkipEmptyLines      *bool   `json:"skipEmptyLines,omitempty"`
	EnableSampling      *bool   `json:"enableSampling,omitempty"`
	SampleSize          *int    `json:"sampleSize,omitempty"`
	FullAnalysis        *bool   `json:"fullAnalysis,omitempty"`
	UseCache            *bool   `json:"useCache,omitempty"`
	AlignedCorrelations *bool   `json:"alignedCorrelations,omitempty"`
}

// Resolve overlays the payload on the defaults
func (p *OptionsPayload) Resolve() profile.Options {
	opts := profile.DefaultOptions()
	if p == nil {
		return opts
	}
	if p.Delimiter != nil {
		opts.Delimiter = *p.Delimiter
	}
	if p.SkipEmptyLines != nil {
		opts.SkipEmptyLines = *p.SkipEmptyLines
	}
	if p.EnableSampling != nil {
		opts.EnableSampling = *p.EnableSampling
	}
	if p.SampleSize != nil {
		opts.SampleSize = *p.SampleSize
	}
	if p.FullAnalysis != nil {
		opts.FullAnalysis = *p.FullAnalysis
	}
	if p.UseCache != nil {
		opts.UseCache = *p.UseCache
	}
	if p.AlignedCorrelations != nil {
		opts.AlignedCorrelations = *p.AlignedCorrelations
	}
	return opts
}

// ProfileRequest is the POST /api/profile body
type ProfileRequest struct {
	CSV     *string         `json:"csv"`
	Options *OptionsPayload `json:"options,omitempty"`
}

// ProfileResponse is the success envelope for profiling
type ProfileResponse struct {
	Success   bool            `json:"success"`
	RequestID string          `json:"requestId"`
	FromCache bool            `json:"fromCache"`
	Data      *profile.Report `json:"data"`
}

// CompareRequest is the POST /api/compare body; the datasets arrive as
// already-parsed record arrays
type CompareRequest struct {
	Dataset1 []map[string]record.Cell `json:"dataset1"`
	Dataset2 []map[string]record.Cell `json:"dataset2"`
	Options  *OptionsPayload          `json:"options,omitempty"`
}

// CompareData bundles the diff with the two underlying profiles
type CompareData struct {
	Comparison *profile.ComparisonReport `json:"comparison"`
	Profile1   *profile.Report           `json:"profile1"`
	Profile2   *profile.Report           `json:"profile2"`
	TimingMs   float64                   `json:"timingMs"`
}

// CompareResponse is the success envelope for comparison
type CompareResponse struct {
	Success   bool         `json:"success"`
	RequestID string       `json:"requestId"`
	Data      *CompareData `json:"data"`
}

// ErrorResponse is the failure envelope for every endpoint
type ErrorResponse struct {
	Error       string `json:"error"`
	Details     string `json:"details,omitempty"`
	ParseErrors int    `json:"parseErrors,omitempty"`
	RequestID   string `json:"requestId"`
}

// MemoryStats reports process memory in the health document
type MemoryStats struct {
	AllocMB      float64 `json:"allocMb"`
	TotalAllocMB float64 `json:"totalAllocMb"`
	SysMB        float64 `json:"sysMb"`
	NumGC        uint32  `json:"numGc"`
}

// HealthResponse is the GET /api/health document
type HealthResponse struct {
	Status        string      `json:"status"`
	Timestamp     string      `json:"timestamp"`
	UptimeSeconds float64     `json:"uptime_seconds"`
	Version       string      `json:"version"`
	Environment   string      `json:"environment"`
	Memory        MemoryStats `json:"memory"`
	RequestID     string      `json:"requestId"`
}
