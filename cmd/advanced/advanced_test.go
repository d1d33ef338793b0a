package advanced

import (
	"testing"

	"github.com/yolovision/yolovision/internal/conf"
)

func TestCommandKeepsSaveAnnotatedDefault(t *testing.T) {
	settings := &conf.Settings{}
	settings.Output.SaveAnnotated = true

	cmd := Command(settings)

	if !settings.Output.SaveAnnotated {
		t.Errorf("constructing the command must not overwrite output.saveannotated")
	}
	flag := cmd.Flags().Lookup("save-images")
	if flag == nil {
		t.Fatalf("save-images flag not registered")
	}
	if flag.DefValue != "true" {
		t.Errorf("save-images default = %s, want the configured value true", flag.DefValue)
	}
}
