package submission

import (
	"errors"
	"testing"
)

func TestDecodeDataURI(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		wantType string
		wantData string
		wantErr  error
	}{
		{name: "png base64", in: "data:image/png;base64,aGVsbG8=", wantType: "image/png", wantData: "hello"},
		{name: "unpadded base64", in: "data:image/png;base64,aGVsbG8", wantType: "image/png", wantData: "hello"},
		{name: "default media type", in: "data:,a%20b", wantType: "text/plain", wantData: "a b"},
		{name: "empty", in: "  ", wantErr: ErrEmptySignature},
		{name: "empty payload", in: "data:image/png;base64,", wantErr: ErrEmptySignature},
		{name: "no scheme", in: "image/png;base64,aGVsbG8=", wantErr: ErrMalformedDataURI},
		{name: "no comma", in: "data:image/png;base64", wantErr: ErrMalformedDataURI},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, mediaType, err := DecodeDataURI(tc.in)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if mediaType != tc.wantType || string(data) != tc.wantData {
				t.Fatalf("got (%q, %q)", mediaType, data)
			}
		})
	}
}

func TestRecordSchemaLoads(t *testing.T) {
	schema, err := RecordSchema()
	if err != nil {
		t.Fatalf("record schema: %v", err)
	}
	if len(schema.Required) != len(ColumnNames()) {
		t.Fatalf("schema requires %d columns, record has %d", len(schema.Required), len(ColumnNames()))
	}
}
