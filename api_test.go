package whoa_test

import (
	"bytes"
	"io"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"

	"github.com/reoring/whoa"
)

type recordType int32

const (
	single recordType = iota
	ep
	lp
)

type details uint8

const (
	catchy details = 1 << iota
	popular
	terrible
)

type record struct {
	Title                string
	Artist               string
	RPM                  int32 `whoa:"name=rpm"`
	Price                float64
	InLibrary            bool
	OtherBool            bool
	Songs                []string
	GUID                 uuid.UUID
	MoreBools            []bool
	Awards               *string
	Profits              *int32
	Losses               *int32
	SomethingElse        []int32
	Staff                map[string]string
	PlausibleSampleData  map[string]string
	NotActuallyMoreBools []bool
	BoolThree            bool
	BoolFour             bool
	BoolFive             bool
	BoolSix              bool
	BoolSeven            bool
	BoolEight            bool
	BigNumber            *big.Int
	ReleaseDate          time.Time
	Kind                 recordType
	Details              details
	NotAList             [4]string
	Data                 io.Reader
	Done                 chan struct{}
}

func sampleRecord(t *testing.T) record {
	t.Helper()
	n, ok := new(big.Int).SetString("41290871590318501381209471092481204", 10)
	if !ok {
		t.Fatal("bad big int literal")
	}
	profits := int32(5000)
	return record{
		Title:     "Cool Songs For Cool People",
		Artist:    "Ethan Klein",
		RPM:       78,
		Price:     99.99,
		InLibrary: true,
		OtherBool: true,
		Songs:     []string{"International Tiles", "Test Data", "Bonus Track", "Casin"},
		GUID:      uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		MoreBools: []bool{true, false, false, true, true, true, false, false, true, true},
		Profits:   &profits,
		Staff: map[string]string{
			"Ethan Klein":  "Artist",
			"Post Malone":  "Featured Artist",
			"Frank Walker": "Tile Provider",
			"This is some": "test data",
		},
		BoolFour:    true,
		BoolSix:     true,
		BoolEight:   true,
		BigNumber:   n,
		ReleaseDate: time.Date(2015, 4, 20, 0, 0, 0, 0, time.UTC),
		Kind:        ep,
		Details:     catchy | popular,
		NotAList: [4]string{
			"The freedom to run the program as you wish, for any purpose (freedom 0).",
			"The freedom to study how the program works, and change it so it does your computing as you wish (freedom 1).",
			"The freedom to redistribute copies so you can help your neighbor (freedom 2).",
			"The freedom to distribute copies of your modified versions to others (freedom 3).",
		},
		Data: strings.NewReader("what's up, gamers?"),
		Done: make(chan struct{}),
	}
}

var recordCmp = []cmp.Option{
	cmp.Comparer(func(a, b *big.Int) bool {
		if a == nil || b == nil {
			return a == b
		}
		return a.Cmp(b) == 0
	}),
	cmpopts.IgnoreFields(record{}, "Data", "Done"),
}

func TestRoundTrip_Record(t *testing.T) {
	e := whoa.New()
	in := sampleRecord(t)

	var buf bytes.Buffer
	if err := e.Serialize(&buf, in, whoa.NonSerialized); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	out, err := whoa.DeserializeWith[record](e, &buf, whoa.NonSerialized)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("%d bytes left unread", buf.Len())
	}
	if diff := cmp.Diff(in, out, recordCmp...); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	// absent stays absent, present stays present
	if out.Awards != nil || out.Losses != nil || out.SomethingElse != nil || out.PlausibleSampleData != nil || out.NotActuallyMoreBools != nil {
		t.Fatalf("absent members came back present: %+v", out)
	}
	if out.Profits == nil || *out.Profits != 5000 {
		t.Fatalf("profits: %v", out.Profits)
	}
	if out.Details&catchy == 0 || out.Details&popular == 0 || out.Details&terrible != 0 {
		t.Fatalf("details flags: %b", out.Details)
	}
	if out.Data != nil || out.Done != nil {
		t.Fatalf("skipped members must keep their default")
	}
}

func TestRoundTrip_Idempotent(t *testing.T) {
	e := whoa.New()
	in := sampleRecord(t)

	var first bytes.Buffer
	if err := e.Serialize(&first, &in, whoa.NonSerialized); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	raw := bytes.Clone(first.Bytes())
	out, err := whoa.DeserializeWith[*record](e, &first, whoa.NonSerialized)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	for range 5 {
		var again bytes.Buffer
		if err := e.Serialize(&again, out, whoa.NonSerialized); err != nil {
			t.Fatalf("re-serialize: %v", err)
		}
		if !bytes.Equal(raw, again.Bytes()) {
			t.Fatalf("re-serialization differs")
		}
	}
}

type withoutSkipped struct {
	A int32
	B string
}

type withSkipped struct {
	A  int32
	Fn func() error
	B  string
}

func TestNonSerialized_SkipIsSymmetric(t *testing.T) {
	var a, b bytes.Buffer
	if err := whoa.Serialize(&a, withoutSkipped{A: 3, B: "x"}, whoa.NonSerialized); err != nil {
		t.Fatal(err)
	}
	if err := whoa.Serialize(&b, withSkipped{A: 3, B: "x", Fn: func() error { return nil }}, whoa.NonSerialized); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("skipped member leaked into the stream: %x vs %x", a.Bytes(), b.Bytes())
	}
	got, err := whoa.Deserialize[withSkipped](&b, whoa.NonSerialized)
	if err != nil {
		t.Fatal(err)
	}
	if got.A != 3 || got.B != "x" || got.Fn != nil {
		t.Fatalf("unexpected %+v", got)
	}
}

type nullables struct {
	Name  *string
	List  []int32
	Table map[int32]string
	Grid  [][]string
}

func TestNullVersusEmpty(t *testing.T) {
	empty := ""
	cases := []nullables{
		{},
		{Name: &empty, List: []int32{}, Table: map[int32]string{}, Grid: [][]string{}},
		{List: []int32{1, -1}, Table: map[int32]string{2: "two", -7: "minus"}, Grid: [][]string{nil, {}, {"a"}}},
	}
	for i, in := range cases {
		var buf bytes.Buffer
		if err := whoa.Serialize(&buf, in, whoa.Strict); err != nil {
			t.Fatalf("case %d: serialize: %v", i, err)
		}
		out, err := whoa.Deserialize[nullables](&buf, whoa.Strict)
		if err != nil {
			t.Fatalf("case %d: deserialize: %v", i, err)
		}
		if diff := cmp.Diff(in, out); diff != "" {
			t.Fatalf("case %d mismatch (-want +got):\n%s", i, diff)
		}
		if (in.List == nil) != (out.List == nil) || (in.Table == nil) != (out.Table == nil) {
			t.Fatalf("case %d: nil-ness changed", i)
		}
		for j := range in.Grid {
			if (in.Grid[j] == nil) != (out.Grid[j] == nil) {
				t.Fatalf("case %d: nested nil-ness changed at %d", i, j)
			}
		}
	}
}

type flagsOnly struct {
	D details
	K recordType
}

func TestEnum_Bytes(t *testing.T) {
	var buf bytes.Buffer
	if err := whoa.Serialize(&buf, flagsOnly{D: catchy | terrible, K: lp}, whoa.Strict); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x05, 0x02, 0, 0, 0}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("got %x want %x", buf.Bytes(), want)
	}
}

type bigOnly struct {
	N *big.Int
	V big.Int
}

func TestBigInt_Values(t *testing.T) {
	for _, s := range []string{"0", "1", "-1", "127", "128", "-128", "-129", "41290871590318501381209471092481204", "-41290871590318501381209471092481204"} {
		n, _ := new(big.Int).SetString(s, 10)
		in := bigOnly{N: n}
		in.V.Set(n)
		var buf bytes.Buffer
		if err := whoa.Serialize(&buf, &in, whoa.Strict); err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		out, err := whoa.Deserialize[bigOnly](&buf, whoa.Strict)
		if err != nil {
			t.Fatalf("%s: %v", s, err)
		}
		if out.N.Cmp(n) != 0 || out.V.Cmp(n) != 0 {
			t.Fatalf("%s: got %s / %s", s, out.N, &out.V)
		}
	}
}

func TestConcurrentUse(t *testing.T) {
	e := whoa.New()
	in := sampleRecord(t)
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				var buf bytes.Buffer
				if err := e.Serialize(&buf, in, whoa.NonSerialized); err != nil {
					t.Error(err)
					return
				}
				out, err := whoa.DeserializeWith[record](e, &buf, whoa.NonSerialized)
				if err != nil {
					t.Error(err)
					return
				}
				if out.Title != in.Title || len(out.Staff) != 4 {
					t.Errorf("unexpected %+v", out)
					return
				}
			}
		}()
	}
	wg.Wait()
}

type ordinal struct {
	Second string `whoa:"order=2"`
	First  int32  `whoa:"order=1"`
}

func TestExplicitOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := whoa.Serialize(&buf, ordinal{First: 1, Second: "s"}, whoa.Strict); err != nil {
		t.Fatal(err)
	}
	want := []byte{1, 0, 0, 0, 1, 0, 0, 0, 's'}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("got %x want %x", buf.Bytes(), want)
	}
}

func TestWarmup(t *testing.T) {
	e := whoa.New()
	if err := e.Warmup(whoa.NonSerialized, record{}, &nullables{}); err != nil {
		t.Fatalf("warmup: %v", err)
	}
	if err := e.Warmup(whoa.Strict, record{}); err == nil {
		t.Fatalf("expected strict warmup of record to fail on its opaque members")
	}
}
