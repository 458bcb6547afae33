package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lnp-bp.org/rgbiface/fragment"
	"lnp-bp.org/rgbiface/iface"
	"lnp-bp.org/rgbiface/registry"
	"lnp-bp.org/rgbiface/rgb20"
	"lnp-bp.org/rgbiface/rgb25"
	"lnp-bp.org/rgbiface/storage"
	"lnp-bp.org/rgbiface/storage/localfs"
)

func render(t *testing.T, i iface.Iface) []byte {
	t.Helper()
	b, err := iface.Render(i)
	require.NoError(t, err)
	return b
}

func newLib(t *testing.T) storage.Library {
	t.Helper()
	lib, err := localfs.New(t.TempDir())
	require.NoError(t, err)
	_, err = registry.Standard().Publish(lib)
	require.NoError(t, err)
	return lib
}

func code(err error) ErrorCode {
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

const rgb20State = `
contract: rgb:` + "0101010101010101010101010101010101010101010101010101010101010101" + `
global:
  spec:
    - {ticker: TEST, name: Test asset, precision: 8}
  terms:
    - {text: demo terms}
  issuedSupply: [1000000]
  burnedSupply: [250000]
`

func TestDescribeByBytes(t *testing.T) {
	resp, err := Describe(DescribeRequest{Iface: BlobRef{Bytes: render(t, rgb20.Iface(rgb20.FullFeatures))}}, Options{})
	require.NoError(t, err)
	s := resp.Iface
	assert.Equal(t, rgb20.FullIfaceID.String(), s.ID)
	assert.Equal(t, "RGB20", s.Class)
	assert.Equal(t, "fungible-token", s.Family)
	assert.Equal(t, fragment.LNPBPIdentity, s.Developer)
	assert.Equal(t, "renameable+replaceable", s.Features.Text)
	require.NotNil(t, s.Features.RGB20)
	assert.Nil(t, s.Features.RGB25)
	assert.False(t, s.Certified)
}

func TestDescribeByID(t *testing.T) {
	lib := newLib(t)
	resp, err := Describe(DescribeRequest{Iface: BlobRef{ID: rgb25.FullIfaceID.String()}}, Options{Library: lib})
	require.NoError(t, err)
	require.NotNil(t, resp.Iface.Features.RGB25)
	assert.Equal(t, rgb25.FullFeatures, *resp.Iface.Features.RGB25)

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"class":"RGB25"`)
}

func TestDescribeErrors(t *testing.T) {
	lib := newLib(t)
	cases := map[string]struct {
		req  DescribeRequest
		opts Options
		want ErrorCode
	}{
		"empty":        {DescribeRequest{}, Options{}, ErrInvalidRequest},
		"both":         {DescribeRequest{Iface: BlobRef{ID: "x", Bytes: []byte("x")}}, Options{}, ErrInvalidRequest},
		"bad id":       {DescribeRequest{Iface: BlobRef{ID: "nope"}}, Options{}, ErrInvalidID},
		"no library":   {DescribeRequest{Iface: BlobRef{ID: rgb20.FixedIfaceID.String()}}, Options{}, ErrMissingLibrary},
		"not found":    {DescribeRequest{Iface: BlobRef{ID: iface.IdOf([]byte("x")).String()}}, Options{Library: lib}, ErrNotFound},
		"garbage":      {DescribeRequest{Iface: BlobRef{Bytes: []byte("garbage")}}, Options{}, ErrInvalidIface},
		"non standard": {DescribeRequest{Iface: BlobRef{Bytes: render(t, fragment.NamedAsset())}}, Options{}, ErrNonStandard},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Describe(tc.req, tc.opts)
			assert.Equal(t, tc.want, code(err), "%v", err)
		})
	}
}

func TestProjectRGB20(t *testing.T) {
	resp, err := Project(ProjectRequest{
		Iface:      BlobRef{Bytes: render(t, rgb20.Iface(rgb20.Features{Inflation: rgb20.Burnable}))},
		State:      []byte(rgb20State),
		Compliance: ComplianceStrict,
	}, Options{})
	require.NoError(t, err)
	require.NotNil(t, resp.RGB20)
	assert.Nil(t, resp.RGB25)
	assert.Equal(t, "TEST", resp.RGB20.Ticker)
	assert.Equal(t, "demo terms", resp.RGB20.Terms)
	assert.Equal(t, "1000000", resp.RGB20.Issued.String())
	assert.Equal(t, "250000", resp.RGB20.Burned.String())
}

func TestProjectUsesStateIface(t *testing.T) {
	lib := newLib(t)
	state := rgb20State + "iface: " + rgb20.FixedIfaceID.String() + "\n"

	resp, err := Project(ProjectRequest{State: []byte(state)}, Options{Library: lib})
	require.NoError(t, err)
	require.NotNil(t, resp.RGB20)
	assert.Equal(t, rgb20.FixedIfaceID.String(), resp.Iface.ID)

	_, err = Project(ProjectRequest{
		Iface: BlobRef{ID: rgb20.FullIfaceID.String()},
		State: []byte(state),
	}, Options{Library: lib})
	assert.Equal(t, ErrIDMismatch, code(err))
}

func TestProjectErrors(t *testing.T) {
	full := BlobRef{Bytes: render(t, rgb20.Iface(rgb20.FullFeatures))}

	_, err := Project(ProjectRequest{Iface: full, State: []byte("bogus: 1\n")}, Options{})
	assert.Equal(t, ErrInvalidState, code(err))

	_, err = Project(ProjectRequest{State: []byte(rgb20State)}, Options{})
	assert.Equal(t, ErrInvalidRequest, code(err))

	_, err = Project(ProjectRequest{Iface: full, State: []byte(rgb20State), Compliance: "lenient"}, Options{})
	assert.Equal(t, ErrInvalidRequest, code(err))

	noSpec := strings.Replace(rgb20State, "spec:", "other:", 1)
	_, err = Project(ProjectRequest{Iface: full, State: []byte(noSpec)}, Options{})
	assert.Equal(t, ErrMissingState, code(err))
	assert.Contains(t, err.Error(), "requires global state `spec`")
}
