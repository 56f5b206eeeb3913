package model

import (
	"fmt"
	"testing"
)

func TestPushAuditTrimsOldest(t *testing.T) {
	data := &FleetData{}
	for i := 0; i < AuditCapacity+10; i++ {
		data.PushAudit(AuditEvent{ID: fmt.Sprintf("audit-%d", i)})
	}
	if len(data.Audit) != AuditCapacity {
		t.Fatalf("audit length %d", len(data.Audit))
	}
	if data.Audit[0].ID != "audit-10" {
		t.Fatalf("oldest surviving entry %s", data.Audit[0].ID)
	}
	if data.Audit[len(data.Audit)-1].ID != fmt.Sprintf("audit-%d", AuditCapacity+9) {
		t.Fatalf("newest entry %s", data.Audit[len(data.Audit)-1].ID)
	}
}

func TestPushCommandTrimsOldest(t *testing.T) {
	data := &FleetData{}
	for i := 0; i < CommandCapacity+5; i++ {
		data.PushCommand(Command{ID: fmt.Sprintf("cmd-%d", i)})
	}
	if len(data.Commands) != CommandCapacity {
		t.Fatalf("command length %d", len(data.Commands))
	}
	if data.Commands[0].ID != "cmd-5" {
		t.Fatalf("oldest surviving entry %s", data.Commands[0].ID)
	}
}

func TestVendorOf(t *testing.T) {
	data := &FleetData{
		LocusPayloads:   map[string]LocusPayload{"amr-001": {UnitID: "amr-001"}},
		VendorBPayloads: map[string]VendorBPayload{"amr-002": {RobotID: "amr-002"}},
	}
	cases := []struct {
		id   string
		want Vendor
	}{
		{"amr-001", VendorLocus},
		{"amr-002", VendorB},
		{"amr-404", VendorSystem},
		{"", VendorSystem},
	}
	for _, c := range cases {
		if got := data.VendorOf(c.id); got != c.want {
			t.Errorf("VendorOf(%q) = %v, want %v", c.id, got, c.want)
		}
	}
}

func TestParseRole(t *testing.T) {
	if ParseRole("admin") != RoleAdmin || ParseRole("operator") != RoleOperator {
		t.Fatal("known roles not parsed")
	}
	if ParseRole("root") != RoleViewer || ParseRole("") != RoleViewer {
		t.Fatal("unknown roles must degrade to viewer")
	}
	if RoleViewer.CanMutate() {
		t.Fatal("viewer must not mutate")
	}
	if !RoleOperator.CanMutate() || !RoleAdmin.CanMutate() {
		t.Fatal("operator and admin must mutate")
	}
}

func TestTaskTerminal(t *testing.T) {
	for _, status := range []TaskStatus{TaskCompleted, TaskCancelled} {
		if !(Task{Status: status}).Terminal() {
			t.Errorf("%s should be terminal", status)
		}
	}
	for _, status := range []TaskStatus{TaskQueued, TaskAssigned, TaskInProgress} {
		if (Task{Status: status}).Terminal() {
			t.Errorf("%s should not be terminal", status)
		}
	}
}
