// FizzStats - FizzBuzz Sequence Service with Usage Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fizzstats

package validation

import (
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/fizzstats/internal/models"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil || v1 != v2 {
		t.Error("GetValidator() should return the same non-nil instance")
	}
}

func TestValidateStruct_SequenceRequest(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantMsg   string
		wantCode  string
		wantField string
	}{
		{
			name: "complete",
			body: `{"int1":3,"int2":5,"limit":15,"str1":"fizz","str2":"buzz"}`,
		},
		{
			name:      "missing str2",
			body:      `{"int1":3,"int2":5,"limit":20,"str1":"fizz"}`,
			wantMsg:   "str2 is missing in the request body",
			wantCode:  CodeMissingField,
			wantField: "str2",
		},
		{
			name:      "first missing key reported",
			body:      `{"str1":"fizz"}`,
			wantMsg:   "int1 is missing in the request body",
			wantCode:  CodeMissingField,
			wantField: "int1",
		},
		{
			name: "present with wrong type passes shape check",
			body: `{"int1":"x","int2":5,"limit":20,"str1":1,"str2":"buzz"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req models.SequenceRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}

			verr := ValidateStruct(&req)
			if tt.wantMsg == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if verr.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", verr.Error(), tt.wantMsg)
			}
			if verr.Code() != tt.wantCode {
				t.Errorf("Code() = %q, want %q", verr.Code(), tt.wantCode)
			}
			if got := verr.Errors()[0].Field(); got != tt.wantField {
				t.Errorf("Field() = %q, want %q", got, tt.wantField)
			}
		})
	}
}

type boundedStruct struct {
	Mode  string `json:"mode" validate:"oneof=fast slow"`
	Count int    `json:"count" validate:"min=1,max=10"`
}

func TestValidateStruct_ParamMessages(t *testing.T) {
	tests := []struct {
		name    string
		input   boundedStruct
		wantMsg string
	}{
		{"oneof", boundedStruct{Mode: "other", Count: 1}, "mode must be one of: fast slow"},
		{"min", boundedStruct{Mode: "fast", Count: 0}, "count must be at least 1"},
		{"max", boundedStruct{Mode: "slow", Count: 11}, "count must be at most 10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(&tt.input)
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if verr.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", verr.Error(), tt.wantMsg)
			}
			if verr.Code() != CodeInvalidRequest {
				t.Errorf("Code() = %q, want %q", verr.Code(), CodeInvalidRequest)
			}
		})
	}
}
