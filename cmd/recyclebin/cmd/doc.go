// Package cmd implements the recyclebin command line.
//
// Every subcommand loads configuration from the environment (and .env files),
// opens the configured stores and runs one operation:
//
//	recyclebin upload ./report.pdf
//	recyclebin delete report.pdf
//	recyclebin list recycle -o json
//	recyclebin purge
//	recyclebin summary ops@example.com
//	recyclebin serve --addr :8080
package cmd
