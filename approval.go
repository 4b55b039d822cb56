package main

import "errors"

// errUpdateFailed means the update phase touched no rows even though
// unapproved rows were resolved — the store rejected the writes.
var errUpdateFailed = errors.New("no warehouse rows updated")

type approvalResult struct {
	NewlyApproved   int
	AlreadyApproved int
}

// applyApprovals marks every unapproved row in the set approved,
// attributed to username. Approved rows are skipped, which makes a
// repeat scan of the same barcode a counted no-op rather than an error.
func applyApprovals(details []WarehouseDetail, username string) (approvalResult, error) {
	var res approvalResult
	for _, d := range details {
		if d.IsApproved {
			res.AlreadyApproved++
			continue
		}
		n, err := approveDetail(d.ID, username)
		if err != nil {
			return res, err
		}
		res.NewlyApproved += int(n)
	}
	if len(details) > 0 && res.NewlyApproved == 0 && res.AlreadyApproved == 0 {
		return res, errUpdateFailed
	}
	return res, nil
}

func allApproved(details []WarehouseDetail) bool {
	if len(details) == 0 {
		return false
	}
	for _, d := range details {
		if !d.IsApproved {
			return false
		}
	}
	return true
}

// latestApprovedAt returns the most recent approval timestamp in the
// set, relying on the sortable "YYYY-MM-DD HH:MM:SS" storage format.
func latestApprovedAt(details []WarehouseDetail) string {
	latest := ""
	for _, d := range details {
		if d.ApprovedAt != nil && *d.ApprovedAt > latest {
			latest = *d.ApprovedAt
		}
	}
	return latest
}
