package admission

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeDirectory struct {
	approved map[string]ApprovedNetwork
	err      error
	lookups  []string
}

func newFakeDirectory(networks ...ApprovedNetwork) *fakeDirectory {
	d := &fakeDirectory{approved: make(map[string]ApprovedNetwork)}
	for _, n := range networks {
		d.approved[n.BSSID] = n
	}
	return d
}

func (d *fakeDirectory) FindApproved(_ context.Context, bssid string) ([]ApprovedNetwork, error) {
	d.lookups = append(d.lookups, bssid)
	if d.err != nil {
		return nil, d.err
	}
	if n, ok := d.approved[bssid]; ok {
		return []ApprovedNetwork{n}, nil
	}
	return nil, nil
}

func TestChecker_Authorize_PermissionDenied(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	checker := NewChecker(dir)

	_, err := checker.Authorize(context.Background(), NetworkState{
		PermissionGranted: false,
		RadioEnabled:      true,
		BSSID:             "aa:bb:cc:dd:ee:ff",
	})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if len(dir.lookups) != 0 {
		t.Fatalf("expected no directory lookup, got %d", len(dir.lookups))
	}
}

func TestChecker_Authorize_RadioDisabled(t *testing.T) {
	t.Parallel()

	checker := NewChecker(newFakeDirectory())

	_, err := checker.Authorize(context.Background(), NetworkState{
		PermissionGranted: true,
		RadioEnabled:      false,
		BSSID:             "aa:bb:cc:dd:ee:ff",
	})
	if !errors.Is(err, ErrRadioDisabled) {
		t.Fatalf("expected ErrRadioDisabled, got %v", err)
	}
}

func TestChecker_Authorize_IdentifierUnavailable(t *testing.T) {
	t.Parallel()

	checker := NewChecker(newFakeDirectory())

	for _, bssid := range []string{"", "   ", "02:00:00:00:00:00", "02:00:00:00:00:00 "} {
		_, err := checker.Authorize(context.Background(), NetworkState{
			PermissionGranted: true,
			RadioEnabled:      true,
			BSSID:             bssid,
		})
		if !errors.Is(err, ErrIdentifierUnavailable) {
			t.Fatalf("bssid %q: expected ErrIdentifierUnavailable, got %v", bssid, err)
		}
	}
}

func TestChecker_Authorize_NormalizesBSSID(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory(ApprovedNetwork{BSSID: "aa:bb:cc:dd:ee:ff", Label: "office-2f"})
	checker := NewChecker(dir)

	approved, err := checker.Authorize(context.Background(), NetworkState{
		PermissionGranted: true,
		RadioEnabled:      true,
		BSSID:             "  AA:BB:CC:DD:EE:FF  ",
	})
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if approved.BSSID != "aa:bb:cc:dd:ee:ff" || approved.Label != "office-2f" {
		t.Fatalf("unexpected approved network: %+v", approved)
	}
	if len(dir.lookups) != 1 || dir.lookups[0] != "aa:bb:cc:dd:ee:ff" {
		t.Fatalf("expected lowercased lookup, got %v", dir.lookups)
	}
}

func TestChecker_Authorize_NotApproved(t *testing.T) {
	t.Parallel()

	checker := NewChecker(newFakeDirectory())

	_, err := checker.Authorize(context.Background(), NetworkState{
		PermissionGranted: true,
		RadioEnabled:      true,
		BSSID:             "AA:BB:CC:DD:EE:11",
	})

	var notApproved *NotApprovedError
	if !errors.As(err, &notApproved) {
		t.Fatalf("expected NotApprovedError, got %v", err)
	}
	if notApproved.BSSID != "aa:bb:cc:dd:ee:11" {
		t.Fatalf("expected normalized bssid in error, got %s", notApproved.BSSID)
	}
	if !strings.Contains(err.Error(), "aa:bb:cc:dd:ee:11") {
		t.Fatalf("expected bssid in message, got %q", err.Error())
	}
}

func TestChecker_Authorize_DirectoryError(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	dir.err = errors.New("directory unavailable")
	checker := NewChecker(dir)

	_, err := checker.Authorize(context.Background(), NetworkState{
		PermissionGranted: true,
		RadioEnabled:      true,
		BSSID:             "aa:bb:cc:dd:ee:ff",
	})
	if !errors.Is(err, dir.err) {
		t.Fatalf("expected directory error to propagate, got %v", err)
	}
}
