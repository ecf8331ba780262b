// Package config provides configuration parsing for vui tools.
//
// The configuration is stored in vui.json at the project root; vui.yaml and
// vui.yml are read when there is no vui.json. A missing file is not an
// error: every field has a default.
//
// # Configuration File Structure
//
//	{
//	  "debug": true,
//	  "log": {
//	    "level": "debug",
//	    "format": "json"
//	  },
//	  "devtools": {
//	    "addr": "localhost:7070"
//	  },
//	  "metrics": {
//	    "namespace": "myapp"
//	  },
//	  "snapshot": {
//	    "bucket": "ui-snapshots",
//	    "region": "eu-west-1",
//	    "prefix": "nightly"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Devtools:", cfg.Devtools.Addr)
package config
