package solar

// Package solar estimates photovoltaic output from weather forecasts and the
// static geometry of the installation. It produces hourly production
// schedules consumed by the appliance scheduler and exposes helpers to
// categorize production levels and locate high-output time windows.
