package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/campusmarket/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-o string   public base URL
//	-m string   storage backend: memory | postgres
//	-d string   PostgreSQL DSN
//	-s string   token secret key
//	-k string   token codec: plain | jwt
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-x string   media backend: memory | s3
//	-u -p -b -g -e  S3 user, password, bucket, region, endpoint
//	-l int      upload reservation TTL, minutes
//	-w int      sweep interval, minutes
//	-y string   confirm policy: best_effort | strict
//	-z int      max upload size, bytes
//
// Only these flags are looked at (see flagx.FilterArgs), so -c/-config and
// anything else on the command line is left alone.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{
		"-a", "-o", "-m", "-d", "-s", "-k", "-t", "-r", "-x",
		"-u", "-p", "-b", "-g", "-e", "-l", "-w", "-y", "-z",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.BaseURL, "o", config.BaseURL, "public base URL")
	fs.StringVar(&config.StorageBackend, "m", config.StorageBackend, "storage backend (memory|postgres)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.TokenCodec, "k", config.TokenCodec, "token codec (plain|jwt)")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTokenValidity := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")

	fs.StringVar(&config.MediaBackend, "x", config.MediaBackend, "media backend (memory|s3)")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	uploadTTL := fs.Int("l", int(config.UploadTTL.Minutes()), "upload reservation ttl (in minutes)")
	sweepInterval := fs.Int("w", int(config.SweepInterval.Minutes()), "upload sweep interval (in minutes)")

	fs.StringVar(&config.ConfirmPolicy, "y", config.ConfirmPolicy, "confirm policy (best_effort|strict)")
	fs.IntVar(&config.MaxUploadBytes, "z", config.MaxUploadBytes, "max upload size in bytes")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Only overwrite durations that were given, so sub-minute values from
	// JSON or the environment survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
		case "r":
			config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidity) * time.Minute
		case "l":
			config.UploadTTL = time.Duration(*uploadTTL) * time.Minute
		case "w":
			config.SweepInterval = time.Duration(*sweepInterval) * time.Minute
		}
	})
	return nil
}
