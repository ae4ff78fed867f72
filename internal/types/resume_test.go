package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResume_ApplyContact(t *testing.T) {
	r := &Resume{Summary: "Engineer"}
	r.ApplyContact(Contact{
		Name:     "Jane Roe",
		Email:    "jane@example.com",
		Phone:    "555-0100",
		Location: "Austin, TX",
	})

	assert.Equal(t, "Jane Roe", r.Name)
	assert.Equal(t, "jane@example.com", r.Email)
	assert.Equal(t, "555-0100", r.Phone)
	assert.Equal(t, "Austin, TX", r.Location)
	assert.Equal(t, "Engineer", r.Summary)
}

func TestResume_TopSkills(t *testing.T) {
	skills := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}

	tests := []struct {
		name   string
		skills []string
		n      int
		want   []string
	}{
		{name: "truncates", skills: skills, n: 10, want: skills[:10]},
		{name: "fewer than n", skills: []string{"Go"}, n: 10, want: []string{"Go"}},
		{name: "nil skills", skills: nil, n: 10, want: nil},
		{name: "zero", skills: skills, n: 0, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Resume{Skills: tt.skills}
			assert.Equal(t, tt.want, r.TopSkills(tt.n))
		})
	}
}

func TestParseTemplate(t *testing.T) {
	for _, tmpl := range Templates {
		got, err := ParseTemplate(string(tmpl))
		require.NoError(t, err)
		assert.Equal(t, tmpl, got)
	}

	_, err := ParseTemplate("fancy")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown template")
}

func TestEducation_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Education
		wantErr bool
	}{
		{
			name:  "string year and gpa",
			input: `{"degree":"BS","institution":"MIT","year":"2015","gpa":"3.8"}`,
			want:  Education{Degree: "BS", Institution: "MIT", Year: "2015", GPA: "3.8"},
		},
		{
			name:  "numeric year and gpa",
			input: `{"degree":"MBA","institution":"Wharton","year":2020,"gpa":3.75}`,
			want:  Education{Degree: "MBA", Institution: "Wharton", Year: "2020", GPA: "3.75"},
		},
		{
			name:  "null gpa",
			input: `{"degree":"BA","institution":"UCLA","year":2011,"gpa":null}`,
			want:  Education{Degree: "BA", Institution: "UCLA", Year: "2011"},
		},
		{
			name:    "object year",
			input:   `{"degree":"BA","year":{"y":1}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Education
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
