package sink

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMetadata struct {
	path    string
	content string
	err     error
}

func (f *fakeMetadata) GetMetadata(_ context.Context, params *imds.GetMetadataInput, _ ...func(*imds.Options)) (*imds.GetMetadataOutput, error) {
	f.path = params.Path
	if f.err != nil {
		return nil, f.err
	}
	return &imds.GetMetadataOutput{Content: io.NopCloser(strings.NewReader(f.content))}, nil
}

func TestInstanceIDLookup_TableDriven(t *testing.T) {
	tests := []struct {
		name    string
		content string
		err     error
		want    string
		wantErr bool
	}{
		{name: "instance id", content: "i-0123456789abcdef0", want: "i-0123456789abcdef0"},
		{name: "trailing newline", content: "i-0abc\n", want: "i-0abc"},
		{name: "empty response", content: "  ", wantErr: true},
		{name: "metadata unavailable", err: errors.New("connection refused"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeMetadata{content: tt.content, err: tt.err}
			l := &InstanceIDLookup{api: api}

			got, err := l.InstanceID(context.Background())
			assert.Equal(t, "instance-id", api.path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHostname(t *testing.T) {
	name, err := Hostname(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, name)
}
