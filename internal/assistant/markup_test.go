package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "markdown",
			in:   "## Fix it\n\nThanks! **Restart** the [router](http://example.com).\n\n1. *Toggle* WiFi\n2. Call `ext 100`\n\n<b>Bye</b>",
			want: "Fix it\nThanks! Restart the router.\n1. Toggle WiFi\n2. Call ext 100\nBye",
		},
		{
			name: "html",
			in:   "<p>Restart the <em>router</em></p>",
			want: "Restart the router",
		},
		{
			name: "bullets",
			in:   "* one\n* __two__",
			want: "- one\n- two",
		},
		{
			name: "ordered start",
			in:   "3. check cables\n4. reboot",
			want: "3. check cables\n4. reboot",
		},
		{
			name: "entities survive",
			in:   "Don't use \"quotes\" & such",
			want: "Don't use \"quotes\" & such",
		},
		{
			name: "blank",
			in:   "  \n",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}
