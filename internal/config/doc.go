// Package config provides configuration management for stackctl.
//
// This package implements a layered configuration system that allows users to
// customize stackctl's behavior through YAML files. Configuration is loaded
// from multiple sources and merged in a specific order, with later sources
// overriding earlier ones.
//
// # Configuration Layers
//
// Configuration is loaded and merged in the following order:
//
//  1. Default Configuration (embedded in binary)
//     - Provides the standard component stack and sensible global settings
//     - Ensures stackctl works out-of-the-box
//
//  2. User Configuration (~/.config/stackctl/config.yaml)
//     - User-specific settings that apply to all projects
//
//  3. Project Configuration (./.stackctl/config.yaml)
//     - Project-specific settings in the current directory
//     - Allows teams to share configuration via version control
//
//  4. Environment Variables
//     - Runtime switches (DEPLOYMENT_MODE, PARALLEL_DEPLOYMENT,
//       SKIP_HEALTH_CHECKS, DRY_RUN, HEALTH_CHECK_TIMEOUT) override
//       everything above for a single invocation
//
// # Configuration Structure
//
// The configuration file uses YAML format with the following main sections:
//
//	globalSettings:
//	  deploymentMode: docker
//	  parallelDeployment: false
//	components:
//	  - name: "middleware"
//	    port: 7777
//	    healthPath: "/health"
//	    dependsOn: ["postgres", "redis"]
package config
