package cmd

import (
	"fmt"
	"testing"

	"StackSnap/internal/config"
	"StackSnap/internal/testutils"
)

func TestApplyFlags(t *testing.T) {
	conf := config.AppConfig{}
	conf.Backup.Volume = "portainer_data"
	conf.Backup.KeepCount = 7

	tests := []struct {
		flags []string
		want  string
	}{
		{[]string{"-d", "/tmp/b"}, "dir=/tmp/b keep=7 vol=portainer_data vmode=false"},
		{[]string{"-c", "3"}, "dir= keep=3 vol=portainer_data vmode=false"},
		{[]string{"-v", ""}, "dir= keep=7 vol=portainer_data vmode=true"},
		{[]string{"-v", "pdata"}, "dir= keep=7 vol=pdata vmode=true"},
		{[]string{"-n", "-s", "-e"}, "dir= keep=7 vol=portainer_data vmode=false"},
	}

	var results []testutils.TestCase
	for _, tc := range tests {
		state := newCmdState(conf)
		if err := applyFlags(&state, tc.flags); err != nil {
			t.Errorf("applyFlags(%v) returned error: %v", tc.flags, err)
			continue
		}
		got := fmt.Sprintf("dir=%s keep=%d vol=%s vmode=%v", state.BackupDir, state.KeepCount, state.Volume, state.VolumeMode)
		results = append(results, testutils.TestCase{
			Input:    fmt.Sprintf("%v", tc.flags),
			Expected: tc.want,
			Actual:   got,
			Pass:     got == tc.want,
		})
	}
	testutils.PrintTestTable(t, results)
}

func TestApplyFlagsBadKeepCount(t *testing.T) {
	for _, value := range []string{"zero", "-1", "0", ""} {
		state := CmdState{}
		if err := applyFlags(&state, []string{"-c", value}); err == nil {
			t.Errorf("keep count %q should be rejected", value)
		}
	}
}

func TestApplyFlagsBools(t *testing.T) {
	state := CmdState{}
	if err := applyFlags(&state, []string{"-n", "-s", "-e", "-y", "--show-changes", "--git-commit"}); err != nil {
		t.Fatalf("applyFlags returned error: %v", err)
	}
	if !state.DryRun || !state.Simple || !state.BackupEnvs || !state.Yes || !state.ShowChanges || !state.GitCommit {
		t.Errorf("bool flags not applied: %+v", state)
	}
}
