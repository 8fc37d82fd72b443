/*
Package log holds the process wide zerolog logger used by httpfn.

Helpers are exposed at the package level so callers can write

	log.Debug().Str("url", url).Msg("sending request")

without passing a logger around. The logger writes JSON to stderr by default;
SetFormat switches to the console writer and SetLevelString adjusts verbosity.
*/
package log
