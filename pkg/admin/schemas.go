package admin

import "github.com/santhosh-tekuri/jsonschema/v5"

// Submitted bundles are validated against these schemas before they
// replace a reference database, so a malformed CSV export cannot poison
// the state the attestation core reads.

var deviceListSchema = jsonschema.MustCompileString("devices.json", `{
  "type": "object",
  "required": ["devices"],
  "properties": {
    "devices": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["device_identity", "device_class", "version"],
        "properties": {
          "device_identity": {"type": "string", "minLength": 1},
          "device_class": {"type": "string", "minLength": 1},
          "version": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`)

var policyListSchema = jsonschema.MustCompileString("policies.json", `{
  "type": "object",
  "required": ["policies"],
  "properties": {
    "policies": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["device_class", "attestation_type", "version", "warrant", "measurement"],
        "properties": {
          "device_class": {"type": "string", "minLength": 1},
          "attestation_type": {"type": "string", "minLength": 1},
          "version": {"type": "string", "minLength": 1},
          "warrant": {"type": "string", "enum": ["true", "false"]},
          "measurement": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`)

var warrantListSchema = jsonschema.MustCompileString("warrants.json", `{
  "type": "object",
  "required": ["warrants"],
  "properties": {
    "warrants": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["warrantor", "warrantee", "attestation_type"],
        "properties": {
          "warrantor": {"type": "string", "minLength": 1},
          "warrantee": {"type": "string", "minLength": 1},
          "attestation_type": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`)

var propertiesListSchema = jsonschema.MustCompileString("properties.json", `{
  "type": "object",
  "required": ["properties"],
  "properties": {
    "properties": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["attestation_type", "reliability_score", "time_function", "xmin", "xmax"],
        "properties": {
          "attestation_type": {"type": "string", "minLength": 1},
          "reliability_score": {"type": "number", "minimum": 0, "maximum": 1},
          "time_function": {"type": "string", "minLength": 1},
          "xmin": {"type": "integer", "minimum": 0},
          "xmax": {"type": "integer", "minimum": 0}
        }
      }
    }
  }
}`)

var systemConfigSchema = jsonschema.MustCompileString("systemconfig.json", `{
  "type": "object",
  "required": ["security_parameter"],
  "properties": {
    "security_parameter": {"type": "integer", "minimum": 1},
    "maximum_transaction_interval": {"type": "integer", "minimum": 0},
    "maximum_transaction_rate": {"type": "integer", "minimum": 0},
    "punishment_threshold": {"type": "integer", "minimum": 0}
  }
}`)
