package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterAndGet(t *testing.T) {
	Register(&Unit{Name: "zz-test-unit", Source: "// hi\n"})
	u, ok := Get("zz-test-unit")
	assert.True(t, ok)
	assert.Equal(t, "// hi\n", u.Source)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register(&Unit{Name: "zz-dup", Source: "a"})
	assert.Panics(t, func() {
		Register(&Unit{Name: "zz-dup", Source: "b"})
	})
}

func TestSourceConcatenatesInGivenOrder(t *testing.T) {
	Register(&Unit{Name: "zz-a", Source: "AAA"})
	Register(&Unit{Name: "zz-b", Source: "BBB"})
	got := Source("zz-b", "zz-a")
	assert.True(t, len(got) > 0)
	assert.Less(t, indexOf(got, "BBB"), indexOf(got, "AAA"))
}

func TestSourceSkipsUnknownNames(t *testing.T) {
	got := Source("zz-does-not-exist")
	assert.Equal(t, "", got)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
