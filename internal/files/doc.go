// Package files finds and checks the spreadsheet exports the analyze
// command reads from disk.
//
// Discovery scans a directory for .csv and .xlsx exports and picks the
// newest orders file and the newest costs file by name. Validator checks
// an input path before the loader opens it and makes sure export
// directories are writable.
//
//	d := files.NewDiscovery(".", logger)
//	sources, err := d.DiscoverSources("exports")
//	if err != nil {
//	    return err
//	}
package files
