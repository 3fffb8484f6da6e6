// Package topup decides, per canister, whether its cycle balance needs a
// deposit and issues it.
//
// Canisters are always processed one after another. Deposits draw from a
// single wallet, so two canisters must never be checked or funded at the same
// time. A failure on one canister is logged and the run moves on; only a
// failed wallet lookup stops a run before any canister is touched.
package topup
