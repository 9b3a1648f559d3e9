// Package config provides runtime configuration for minifiber tools.
//
// The configuration is stored in minifiber.json, minifiber.yaml or
// minifiber.yml in the working directory. This package handles loading,
// saving and validating it.
//
// # Configuration File Structure
//
//	scheduler:
//	  sliceBudget: 16ms
//	  lowWaterMark: 1ms
//	  idleInterval: 4ms
//	log:
//	  level: info
//	  format: text
//	metrics:
//	  enabled: true
//	  namespace: minifiber
//	server:
//	  addr: localhost:3000
//	snapshot:
//	  backend: s3
//	  bucket: my-bucket
//	  prefix: snapshots/
//	  region: eu-west-1
//
// # Usage
//
//	cfg, err := config.LoadOrNew(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Addr:", cfg.Server.Addr)
package config
