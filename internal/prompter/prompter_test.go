package prompter

import "testing"

func TestApplyDefUseOlder(t *testing.T) {
	r := ApplyDef(UseOlder, DefWav, "01")
	if r.UseNew {
		t.Fatalf("UseOlder must not select the new value")
	}
	if r.Warning != nil || r.Err != nil {
		t.Fatalf("UseOlder must not produce a warning or error")
	}
}

func TestApplyDefWarnAndUseNewer(t *testing.T) {
	r := ApplyDef(WarnAndUseNewer, DefBpmChange, "0A")
	if !r.UseNew {
		t.Fatalf("WarnAndUseNewer must select the new value")
	}
	if r.Warning == nil {
		t.Fatalf("WarnAndUseNewer must emit a warning")
	}
}

func TestApplyDefFail(t *testing.T) {
	r := ApplyDef(Fail, DefStop, "ZZ")
	if r.Err == nil {
		t.Fatalf("Fail must produce an error")
	}
}

func TestApplyChannelWarnAndUseOlder(t *testing.T) {
	r := ApplyChannel(WarnAndUseOlder, ChannelBpm, "1:1/4")
	if r.UseNew {
		t.Fatalf("WarnAndUseOlder must keep the existing value")
	}
	if r.Warning == nil {
		t.Fatalf("WarnAndUseOlder must emit a warning")
	}
}

func TestStockPolicies(t *testing.T) {
	cases := []struct {
		name   string
		p      Prompter
		expect DuplicationWorkaround
	}{
		{"older", AlwaysUseOlder{}, UseOlder},
		{"newer", AlwaysUseNewer{}, UseNewer},
		{"warn-older", WarnAndUseOlderPolicy{}, WarnAndUseOlder},
		{"warn-newer", WarnAndUseNewerPolicy{}, WarnAndUseNewer},
		{"panic", PanicPolicy{}, Fail},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.p.HandleDefDuplication(DefDuplication{Kind: DefWav, ID: "01"}); got != tc.expect {
				t.Fatalf("HandleDefDuplication = %v, want %v", got, tc.expect)
			}
			if got := tc.p.HandleTrackDuplication(TrackDuplication{Track: 1}); got != tc.expect {
				t.Fatalf("HandleTrackDuplication = %v, want %v", got, tc.expect)
			}
			if got := tc.p.HandleChannelDuplication(ChannelDuplication{Kind: ChannelBpm}); got != tc.expect {
				t.Fatalf("HandleChannelDuplication = %v, want %v", got, tc.expect)
			}
		})
	}
}
