package metrics

import (
	"testing"
)

func TestPackageHelpers(t *testing.T) {
	// The package-level helpers write to the global manager; they must be
	// callable in any order without panicking.
	RecordAuditSubmitted()
	RecordAuditProcessed()
	RecordAuditFailed()
	RecordEventDuplicate()
	RecordEventsClassified(12)
	RecordLeaveDetected()
	RecordPipelineLatency(35.5)
	RecordRolesGenerated(3)
	RecordRoleMutation("move_task")
	RecordRoleMutation("reorder")
	RecordEventOverride()

	UpdateQueueSize(5)
	UpdateQueueCapacity(100)
	UpdateQueueUtilization(0.05)
	RecordQueueEnqueue()
	RecordQueueDequeue()
	RecordQueueEnqueueError()

	UpdateWorkerCount(4)
	RecordWorkerError()
	RecordWorkerProcessingLatency(12.0)
	UpdateTotalAudits(7)

	RecordHTTPRequest("audits", "POST", "202")
	RecordHTTPRequestDuration("audits", "POST", "202", 8.25)
	RecordErrorByComponent("http", "client_error")

	UpdateSystemMemoryUsage(1 << 20)
	UpdateSystemGoroutineCount(42)
	RecordSystemGCPauseTime(0.8)
}

func TestRegistryGathers(t *testing.T) {
	reg := GetRegistry()
	if reg == nil {
		t.Fatal("GetRegistry returned nil")
	}

	RecordAuditSubmitted()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected at least one metric family")
	}

	found := false
	for _, mf := range families {
		if mf.GetName() == "founderbleed_audit_audits_submitted_total" {
			found = true
			break
		}
	}
	if !found {
		t.Error("audits_submitted counter not registered")
	}
}

func TestNewManagerWithCustomRegistry(t *testing.T) {
	m := NewManager(WithNamespace("test"), WithSubsystem("suite"))
	if m == nil {
		t.Fatal("NewManager returned nil")
	}
}
