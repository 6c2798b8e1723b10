package config_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/njchilds90/htmlclean/internal/config"
)

func TestLoadEnv(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		want    config.Env
	}{
		{
			name:    "defaults",
			environ: map[string]string{},
			want:    config.Env{MaxInput: 4 << 20},
		},
		{
			name: "overrides",
			environ: map[string]string{
				"HTMLCLEAN_MAX_INPUT": "1024",
				"HTMLCLEAN_POLICY":    "/etc/htmlclean.yml",
				"HTMLCLEAN_LOG_FILE":  "/tmp/htmlclean.log",
				"HTMLCLEAN_DEBUG":     "true",
			},
			want: config.Env{
				MaxInput: 1024,
				Policy:   "/etc/htmlclean.yml",
				LogFile:  "/tmp/htmlclean.log",
				Debug:    true,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := config.LoadEnv(tt.environ)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("LoadEnv (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadEnv_Invalid(t *testing.T) {
	if _, err := config.LoadEnv(map[string]string{"HTMLCLEAN_MAX_INPUT": "lots"}); err == nil {
		t.Error("expected a parse error")
	}
	if _, err := config.LoadEnv(map[string]string{"HTMLCLEAN_MAX_INPUT": "-1"}); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}
