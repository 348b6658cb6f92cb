// Package profile records runtime profiles of the bexl command with
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof .
//
// Without the tag [Modes] returns nothing, [Start] never records, and the
// command hides its --pprof-* flags.
//
//	stop, err := profile.Start(ctx, profile.Settings{Mode: "cpu", Dir: dir})
//	if err != nil {
//		return err
//	}
//	defer stop()
package profile
