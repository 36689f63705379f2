// Package config provides configuration parsing for tagkit.
//
// The configuration is stored in tagkit.json (comments and trailing
// commas allowed) or tagkit.yaml at the project root. Every field is
// optional; New supplies the defaults and a file only overrides what it
// names. Command-line flags override file values.
//
// # Configuration File Structure
//
//	{
//	  // Output formatting
//	  "render": {"pretty": true, "indent": "  "},
//	  "scheduler": {"maxFlushPasses": 16, "manualFlush": false},
//	  "diagnostics": {"format": "text", "color": true},
//	  "serve": {
//	    "host": "localhost",
//	    "port": 7400,
//	    "allowedOrigins": ["http://localhost:5173"],
//	  },
//	  "metrics": {"namespace": "tagkit"},
//	  "tracing": {"tracerName": "tagkit"},
//	}
//
// # Usage
//
//	cfg, err := config.Discover(".")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//	fmt.Println("Listening on", cfg.Address())
package config
