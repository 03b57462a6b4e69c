package models

import (
	"testing"

	"github.com/lingualink/gamify/missions/catalog"
)

func TestCompoundAddRouting(t *testing.T) {
	cp := &CompoundProgress{PlayerID: "p"}

	if !cp.Add(catalog.ActionSendMessages, 3) {
		t.Error("send_messages not routed")
	}
	if !cp.Add(catalog.ActionCompleteTranslations, 2) {
		t.Error("complete_translations not routed")
	}
	if !cp.Add(catalog.ActionShareMedia, 1) {
		t.Error("share_media not routed")
	}
	if cp.Add(catalog.ActionAddContacts, 5) {
		t.Error("add_contacts must not feed compound counters")
	}
	if cp.Messages != 3 || cp.Translations != 2 || cp.Media != 1 {
		t.Errorf("counters = %d/%d/%d", cp.Messages, cp.Translations, cp.Media)
	}
}

func TestCompoundDisplayValue(t *testing.T) {
	tests := []struct {
		name         string
		messages     int
		translations int
		media        int
		want         int
	}{
		{"empty", 0, 0, 0, 0},
		{"one counter full", 50, 0, 0, 33},
		{"half and half", 25, 10, 0, 33},
		{"overshoot clamps per counter", 500, 0, 0, 33},
		{"nearly done", 50, 20, 9, 97},
		{"all caps hit", 50, 20, 10, 100},
		{"overshoot at full", 80, 40, 25, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp := &CompoundProgress{Messages: tt.messages, Translations: tt.translations, Media: tt.media}
			if got := cp.DisplayValue(100); got != tt.want {
				t.Errorf("DisplayValue = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCompoundCompleteRequiresRawCaps(t *testing.T) {
	cp := &CompoundProgress{Messages: 49, Translations: 20, Media: 10}
	if cp.Complete() {
		t.Error("complete below the messages cap")
	}
	cp.Messages = 50
	if !cp.Complete() {
		t.Error("not complete with every cap reached")
	}
	cp.Reset()
	if cp.Complete() || cp.Messages != 0 || cp.Translations != 0 || cp.Media != 0 {
		t.Error("reset did not zero the counters")
	}
}

func TestMissionInstanceInvariants(t *testing.T) {
	valid := &MissionInstance{ID: 1, TargetValue: 10, CurrentValue: 4}
	if err := valid.CheckInvariants(); err != nil {
		t.Errorf("valid instance rejected: %v", err)
	}

	claimedIncomplete := &MissionInstance{ID: 2, TargetValue: 10, Claimed: true}
	if err := claimedIncomplete.CheckInvariants(); err == nil {
		t.Error("claimed-but-incomplete instance accepted")
	}

	negative := &MissionInstance{ID: 3, TargetValue: 10, CurrentValue: -1}
	if err := negative.CheckInvariants(); err == nil {
		t.Error("negative progress accepted")
	}
}
