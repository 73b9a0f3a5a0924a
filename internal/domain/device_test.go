package domain

import (
	"math"
	"testing"
)

func TestAddReputationSaturates(t *testing.T) {
	d := Device{ReputationScore: math.MaxUint16 - 3}
	d.AddReputation(5)
	if d.ReputationScore != math.MaxUint16 {
		t.Errorf("reputation = %d, want %d", d.ReputationScore, math.MaxUint16)
	}

	d = Device{ReputationScore: 100}
	d.AddReputation(5)
	if d.ReputationScore != 105 {
		t.Errorf("reputation = %d, want 105", d.ReputationScore)
	}
}

func TestSubReputationFloorsAtZero(t *testing.T) {
	d := Device{ReputationScore: 7}
	d.SubReputation(10)
	if d.ReputationScore != 0 {
		t.Errorf("reputation = %d, want 0", d.ReputationScore)
	}

	d = Device{ReputationScore: 100}
	d.SubReputation(10)
	if d.ReputationScore != 90 {
		t.Errorf("reputation = %d, want 90", d.ReputationScore)
	}
}

func TestTaskIsTerminal(t *testing.T) {
	for _, status := range []TaskStatus{TaskPending, TaskAssigned, TaskCompleted} {
		task := Task{Status: status}
		if task.IsTerminal() {
			t.Errorf("status %s should not be terminal", status)
		}
	}
	task := Task{Status: TaskFailed}
	if !task.IsTerminal() {
		t.Error("Failed should be terminal")
	}
}
