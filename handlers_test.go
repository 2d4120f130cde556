package whoa_test

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/whoa"
	"github.com/reoring/whoa/codec"
	"github.com/reoring/whoa/wire"
)

// secret has no exported state; only a handler can carry it.
type secret struct {
	code string
}

func writeSecret(w *wire.Writer, s secret) error { return w.Text(s.code) }

func readSecret(r *wire.Reader) (secret, error) {
	s, err := r.Text()
	return secret{code: s}, err
}

type vault struct {
	Owner   string
	Key     secret
	Spares  []secret
	ByRoom  map[string]secret
	Backup  *secret
	Payload io.Reader
}

func newEngine(t *testing.T) *whoa.Engine {
	t.Helper()
	e := whoa.New()
	require.NoError(t, whoa.RegisterHandlerWith(e, writeSecret, readSecret))
	require.NoError(t, whoa.RegisterHandlerWith(e,
		func(w *wire.Writer, r io.Reader) error {
			if r == nil {
				return w.Presence(false)
			}
			b, err := io.ReadAll(r)
			if err != nil {
				return err
			}
			if err := w.Presence(true); err != nil {
				return err
			}
			return w.Blob(b)
		},
		func(r *wire.Reader) (io.Reader, error) {
			ok, err := r.Presence()
			if err != nil || !ok {
				return nil, err
			}
			b, err := r.Blob()
			if err != nil {
				return nil, err
			}
			return bytes.NewReader(b), nil
		}))
	return e
}

func TestHandler_MembersElementsAndValues(t *testing.T) {
	e := newEngine(t)
	in := vault{
		Owner:   "me",
		Key:     secret{"k1"},
		Spares:  []secret{{"s1"}, {"s2"}},
		ByRoom:  map[string]secret{"hall": {"h"}},
		Backup:  &secret{"b"},
		Payload: bytes.NewReader([]byte("what's up, gamers?")),
	}
	var buf bytes.Buffer
	require.NoError(t, e.Serialize(&buf, in, whoa.Strict))

	out, err := whoa.DeserializeWith[vault](e, &buf, whoa.Strict)
	require.NoError(t, err)
	assert.Equal(t, "k1", out.Key.code)
	assert.Equal(t, []secret{{"s1"}, {"s2"}}, out.Spares)
	assert.Equal(t, map[string]secret{"hall": {"h"}}, out.ByRoom)
	require.NotNil(t, out.Backup)
	assert.Equal(t, "b", out.Backup.code)
	data, err := io.ReadAll(out.Payload)
	require.NoError(t, err)
	assert.Equal(t, "what's up, gamers?", string(data))

	ts, err := e.SchemaOf(reflect.TypeFor[vault](), whoa.Strict)
	require.NoError(t, err)
	assert.Equal(t, whoa.KindCustom, ts.Members[1].Kind)
	assert.Equal(t, whoa.KindCustom, ts.Members[5].Kind)
}

func TestHandler_Root(t *testing.T) {
	e := newEngine(t)
	var buf bytes.Buffer
	require.NoError(t, e.Serialize(&buf, secret{"root"}, whoa.Strict))
	assert.Equal(t, []byte{4, 0, 0, 0, 'r', 'o', 'o', 't'}, buf.Bytes())

	got, err := whoa.DeserializeWith[secret](e, &buf, whoa.Strict)
	require.NoError(t, err)
	assert.Equal(t, "root", got.code)
}

func TestHandler_AppendOnly(t *testing.T) {
	e := newEngine(t)
	err := whoa.RegisterHandlerWith(e, writeSecret, readSecret)
	assert.ErrorIs(t, err, whoa.ErrHandlerRegistered)
	assert.Error(t, whoa.RegisterHandlerWith[secret](e, nil, readSecret))
}

func TestHandler_FailureIsReported(t *testing.T) {
	e := whoa.New()
	boom := errors.New("boom")
	require.NoError(t, whoa.RegisterHandlerWith(e,
		func(*wire.Writer, secret) error { return boom },
		readSecret))

	err := e.Serialize(io.Discard, vaultLite{Key: secret{"x"}}, whoa.Strict)
	iss, ok := whoa.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, whoa.CodeHandler, iss[0].Code)
	assert.Equal(t, "/Key", iss[0].Path)
	assert.ErrorIs(t, err, boom)

	var he *whoa.HandlerError
	assert.ErrorAs(t, err, &he)
}

type vaultLite struct {
	Key secret
}

type celsius float32

func TestRegisterCodec(t *testing.T) {
	e := whoa.New()
	// store temperatures as whole tenths of a degree
	tenths := codec.Func(
		func(w *wire.Writer, c celsius) error { return w.Int16(int16(c * 10)) },
		func(r *wire.Reader) (celsius, error) {
			v, err := r.Int16()
			return celsius(v) / 10, err
		})
	require.NoError(t, whoa.RegisterCodec(e, tenths))

	type reading struct {
		Temp celsius
	}
	var buf bytes.Buffer
	require.NoError(t, e.Serialize(&buf, reading{Temp: 21.5}, whoa.Strict))
	assert.Equal(t, 2, buf.Len())
	got, err := whoa.DeserializeWith[reading](e, &buf, whoa.Strict)
	require.NoError(t, err)
	assert.InDelta(t, 21.5, float64(got.Temp), 0.001)
}

func TestHandler_RegisteredAfterBuildHasNoEffect(t *testing.T) {
	e := whoa.New()
	type late struct {
		A int32
		S secret
	}
	ts, err := e.SchemaOf(reflect.TypeFor[late](), whoa.NonSerialized)
	require.NoError(t, err)
	assert.Equal(t, whoa.KindSkipped, ts.Members[1].Kind)

	require.NoError(t, whoa.RegisterHandlerWith(e, writeSecret, readSecret))
	again, err := e.SchemaOf(reflect.TypeFor[late](), whoa.NonSerialized)
	require.NoError(t, err)
	assert.Same(t, ts, again)
	assert.Equal(t, whoa.KindSkipped, again.Members[1].Kind)
}
