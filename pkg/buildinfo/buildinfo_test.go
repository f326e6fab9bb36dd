package buildinfo

import "testing"

func TestBinaryVersionDefault(t *testing.T) {
	if BinaryVersion == "" {
		t.Fatal("BinaryVersion must never be empty")
	}
}

func TestModuleVersionDoesNotPanic(t *testing.T) {
	_ = ModuleVersion()
}
