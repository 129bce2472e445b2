package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEnvironment(t *testing.T) {
	cases := []struct {
		in   string
		want Environment
	}{
		{"production", Production},
		{"prod", Production},
		{"PRODUCTION", Production},
		{" staging ", Staging},
		{"stage", Staging},
		{"testing", Testing},
		{"test", Testing},
		{"development", Development},
		{"", Development},
		{"something-else", Development},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseEnvironment(tc.in))
		})
	}
}

func TestEnvironmentPredicates(t *testing.T) {
	assert.True(t, Production.IsProduction())
	assert.False(t, Production.IsDevelopment())
	assert.True(t, Development.IsDevelopment())
	assert.False(t, Staging.IsProduction())
}
