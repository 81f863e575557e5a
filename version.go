package wcmp

// Version is the module version reported by the wcmp command.
const Version = "0.1.0"
