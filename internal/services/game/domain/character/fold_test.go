package character

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

var foldTime = time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

func TestFoldInitialClaimsAndActivates(t *testing.T) {
	state, err := Fold(NewState(), Event{
		Seq:        1,
		PlayerID:   "p-a",
		PlayerName: "Ana",
		Identity:   Identity{Name: "Explorer", Type: "Scout"},
		Kind:       KindInitial,
		Timestamp:  foldTime,
	})
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	if got := state.ActiveByPlayer["p-a"]; got != (Identity{Name: "Explorer", Type: "Scout"}) {
		t.Fatalf("active = %+v", got)
	}
	if state.IsDead("p-a") {
		t.Fatal("expected player to be alive")
	}
	if !state.IsClaimed(Identity{Name: "explorer", Type: "scout"}) {
		t.Fatal("expected identity to be claimed")
	}
	if state.Players["p-a"].PlayerName != "Ana" {
		t.Fatalf("player name = %q, want %q", state.Players["p-a"].PlayerName, "Ana")
	}
	if state.LastSeq != 1 {
		t.Fatalf("last seq = %d, want 1", state.LastSeq)
	}
}

func TestFoldDoesNotMutateInput(t *testing.T) {
	before := NewState()
	_, err := Fold(before, Event{Seq: 1, PlayerID: "p-a", Identity: Identity{Name: "Explorer"}, Kind: KindInitial})
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	if len(before.ActiveByPlayer) != 0 || len(before.Claimed) != 0 || before.LastSeq != 0 {
		t.Fatal("expected input state to be untouched")
	}
}

func TestFoldDeathMovesPlayerToDead(t *testing.T) {
	state := mustReconstruct(t, []Event{
		{Seq: 1, PlayerID: "p-a", Identity: Identity{Name: "Explorer"}, Kind: KindInitial},
		{Seq: 2, PlayerID: "p-a", Identity: Identity{Name: "Explorer"}, Kind: KindDeath},
	})
	if _, ok := state.ActiveByPlayer["p-a"]; ok {
		t.Fatal("expected dead player to have no active identity")
	}
	if !state.IsDead("p-a") {
		t.Fatal("expected player to be dead")
	}
	if state.Players["p-a"].Deaths != 1 {
		t.Fatalf("deaths = %d, want 1", state.Players["p-a"].Deaths)
	}
	if len(state.Claimed) != 1 {
		t.Fatalf("claimed = %d, want 1", len(state.Claimed))
	}
}

func TestFoldReplacementAndRevival(t *testing.T) {
	previous := Identity{Name: "Explorer"}
	state := mustReconstruct(t, []Event{
		{Seq: 1, PlayerID: "p-a", Identity: previous, Kind: KindInitial},
		{Seq: 2, PlayerID: "p-a", Identity: previous, Kind: KindDeath},
		{Seq: 3, PlayerID: "p-a", Identity: Identity{Name: "Athlete", Type: "Tank"}, Kind: KindReplacement, PreviousIdentity: &previous},
		{Seq: 4, PlayerID: "p-a", Identity: Identity{Name: "Athlete", Type: "Tank"}, Kind: KindDeath},
		{Seq: 5, PlayerID: "p-a", Identity: Identity{Name: "Athlete", Type: "Tank"}, Kind: KindRevival},
	})
	if got := state.ActiveByPlayer["p-a"]; got != (Identity{Name: "Athlete", Type: "Tank"}) {
		t.Fatalf("active = %+v", got)
	}
	if state.IsDead("p-a") {
		t.Fatal("expected revived player to be alive")
	}
	if len(state.Claimed) != 2 {
		t.Fatalf("claimed = %d, want 2", len(state.Claimed))
	}
}

func TestFoldRejectsMalformedLogs(t *testing.T) {
	alive := Event{Seq: 1, PlayerID: "p-a", Identity: Identity{Name: "Explorer"}, Kind: KindInitial}
	tests := []struct {
		name string
		log  []Event
		want error
	}{
		{"sequence gap", []Event{{Seq: 2, PlayerID: "p-a", Identity: Identity{Name: "X"}, Kind: KindInitial}}, ErrSequenceGap},
		{"missing player", []Event{{Seq: 1, Identity: Identity{Name: "X"}, Kind: KindInitial}}, ErrPlayerIDRequired},
		{"unknown kind", []Event{{Seq: 1, PlayerID: "p-a", Kind: Kind("exploded")}}, ErrUnknownKind},
		{"death before initial", []Event{{Seq: 1, PlayerID: "p-a", Kind: KindDeath}}, ErrInvalidTransition},
		{"double initial", []Event{alive, {Seq: 2, PlayerID: "p-a", Identity: Identity{Name: "Y"}, Kind: KindInitial}}, ErrInvalidTransition},
		{"replace living", []Event{alive, {Seq: 2, PlayerID: "p-a", Identity: Identity{Name: "Y"}, Kind: KindReplacement}}, ErrInvalidTransition},
		{"revive living", []Event{alive, {Seq: 2, PlayerID: "p-a", Identity: Identity{Name: "Explorer"}, Kind: KindRevival}}, ErrInvalidTransition},
		{"death of another identity", []Event{alive, {Seq: 2, PlayerID: "p-a", Identity: Identity{Name: "Ghost"}, Kind: KindDeath}}, ErrInvalidTransition},
		{"revive as unclaimed identity", []Event{
			alive,
			{Seq: 2, PlayerID: "p-a", Identity: Identity{Name: "Explorer"}, Kind: KindDeath},
			{Seq: 3, PlayerID: "p-a", Identity: Identity{Name: "Ghost"}, Kind: KindRevival},
		}, ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reconstruct(tt.log)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFoldRevivalMatchesLivingIdentityIgnoringCase(t *testing.T) {
	state := mustReconstruct(t, []Event{
		{Seq: 1, PlayerID: "p-a", Identity: Identity{Name: "Explorer", Type: "Scout"}, Kind: KindInitial},
		{Seq: 2, PlayerID: "p-a", Identity: Identity{Name: "explorer", Type: "scout"}, Kind: KindDeath},
		{Seq: 3, PlayerID: "p-a", Identity: Identity{Name: " EXPLORER ", Type: "Scout"}, Kind: KindRevival},
	})
	if state.IsDead("p-a") {
		t.Fatal("expected revived player to be alive")
	}
	if len(state.Claimed) != 1 {
		t.Fatalf("claimed = %d, want 1", len(state.Claimed))
	}
}

func TestReconstructIsDeterministic(t *testing.T) {
	log := scenarioLog(t)
	first := mustReconstruct(t, log)
	second := mustReconstruct(t, log)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected replaying the same log to yield the same state")
	}
}

func TestFoldMatchesReconstructForEveryPrefix(t *testing.T) {
	log := scenarioLog(t)
	for i := range log {
		batch := mustReconstruct(t, log[:i+1])
		incremental, err := Fold(mustReconstruct(t, log[:i]), log[i])
		if err != nil {
			t.Fatalf("fold event %d: %v", log[i].Seq, err)
		}
		if !reflect.DeepEqual(batch, incremental) {
			t.Fatalf("prefix %d: incremental fold diverged from batch reconstruct", i+1)
		}
	}
}

func TestLogJSONRoundTripReconstructsSameState(t *testing.T) {
	log := scenarioLog(t)
	data, err := MarshalLog(log)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := UnmarshalLog(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(mustReconstruct(t, decoded), mustReconstruct(t, log)) {
		t.Fatal("expected reconstruct(decode(encode(log))) to equal reconstruct(log)")
	}
	if decoded[3].PreviousIdentity == nil || *decoded[3].PreviousIdentity != (Identity{Name: "Explorer", Type: "Scout"}) {
		t.Fatalf("previous identity = %+v", decoded[3].PreviousIdentity)
	}
}

func TestMarshalEmptyLog(t *testing.T) {
	data, err := MarshalLog(nil)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("data = %s, want []", data)
	}
	if _, err := UnmarshalLog([]byte("{")); err == nil {
		t.Fatal("expected decode error")
	}
}

func mustReconstruct(t *testing.T, log []Event) State {
	t.Helper()
	state, err := Reconstruct(log)
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	return state
}

// scenarioLog drives an engine through every transition and returns its log.
func scenarioLog(t *testing.T) []Event {
	t.Helper()
	engine := NewEngine(WithClock(func() time.Time { return foldTime }))
	steps := []func() error{
		func() error {
			_, err := engine.Initialize([]Assignment{
				{PlayerID: "p-a", PlayerName: "Ana", Identity: Identity{Name: "Explorer", Type: "Scout"}},
				{PlayerID: "p-b", PlayerName: "Bo", Identity: Identity{Name: "Scholar", Type: "Scholar"}},
			})
			return err
		},
		func() error { _, err := engine.MarkDeath("p-a"); return err },
		func() error { _, err := engine.ConfirmReplacement("p-a", Identity{Name: "Athlete", Type: "Tank"}); return err },
		func() error { _, err := engine.MarkDeath("p-b"); return err },
		func() error { _, err := engine.Revive("p-b", true); return err },
		func() error { _, err := engine.MarkDeath("p-a"); return err },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i+1, err)
		}
	}
	return engine.Log()
}
