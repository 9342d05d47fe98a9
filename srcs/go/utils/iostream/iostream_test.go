package iostream

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Tee(t *testing.T) {
	var a, b bytes.Buffer
	err := Tee(strings.NewReader("rank 0 ok\nrank 1 ok"), &a, &b)
	assert.NoError(t, err)
	assert.Equal(t, "rank 0 ok\nrank 1 ok\n", a.String())
	assert.Equal(t, a.String(), b.String())
}

func Test_SaveFirst(t *testing.T) {
	r := StdReaders{
		Stdout: strings.NewReader("out"),
		Stderr: strings.NewReader("first\nsecond"),
	}
	w := &SaveFirstdWriter{}
	r.Stream(&StdWriters{Stdout: &Null{}, Stderr: w}).Wait()
	assert.Equal(t, "first\n", w.First)
}
