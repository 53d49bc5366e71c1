package complete_test

import (
	"testing"

	"github.com/tanglin/bufyaml/complete"
)

func TestShouldAutoTrigger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		ch     rune
		text   string
		offset int
		want   bool
	}{
		{
			name:   "colon always triggers",
			ch:     ':',
			text:   "version",
			offset: 7,
			want:   true,
		},
		{
			name:   "dash always triggers",
			ch:     '-',
			text:   "deps:\n",
			offset: 6,
			want:   true,
		},
		{
			name:   "newline always triggers",
			ch:     '\n',
			text:   "generate:",
			offset: 9,
			want:   true,
		},
		{
			name:   "space mid-word does not trigger",
			ch:     ' ',
			text:   "remote",
			offset: 6,
			want:   false,
		},
		{
			name:   "space after colon triggers",
			ch:     ' ',
			text:   "version:",
			offset: 8,
			want:   true,
		},
		{
			name:   "space after dash triggers",
			ch:     ' ',
			text:   "deps:\n-",
			offset: 7,
			want:   true,
		},
		{
			name:   "tab after dash triggers",
			ch:     '\t',
			text:   "deps:\n  -",
			offset: 9,
			want:   true,
		},
		{
			name:   "space on blank line under open container triggers",
			ch:     ' ',
			text:   "generate:\n",
			offset: 10,
			want:   true,
		},
		{
			name:   "comment between does not block the container check",
			ch:     ' ',
			text:   "lint:\n# rules\n",
			offset: 14,
			want:   true,
		},
		{
			name:   "blank line under a closed line does not trigger",
			ch:     ' ',
			text:   "version: v1alpha\n",
			offset: 17,
			want:   false,
		},
		{
			name:   "plain letter does not trigger",
			ch:     'a',
			text:   "version:",
			offset: 8,
			want:   false,
		},
		{
			name:   "blank line in empty document does not trigger",
			ch:     ' ',
			text:   "",
			offset: 0,
			want:   false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got := complete.ShouldAutoTrigger(test.ch, test.text, test.offset)

			if got != test.want {
				t.Errorf("ShouldAutoTrigger(%q, %q, %d) = %v, want %v",
					test.ch, test.text, test.offset, got, test.want)
			}
		})
	}
}
